package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/reservation"
)

// The /rpc routes serve reservation.HTTPRPC. Errors use the
// reservation.ErrorBody envelope.

func (s *Server) timeSlots(w http.ResponseWriter, r *http.Request) {
	var req reservation.TimeSlotsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	slots, err := s.booking.TimeSlots(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

func (s *Server) availability(w http.ResponseWriter, r *http.Request) {
	var req reservation.AvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	avail, err := s.booking.Availability(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

func (s *Server) createReservation(w http.ResponseWriter, r *http.Request) {
	var req models.ReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.booking.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) getReservation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.booking.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) cancelReservation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.booking.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
