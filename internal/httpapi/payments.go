package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chrisdamba/foodsite/internal/events"
	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/payment"
)

type openPaymentRequest struct {
	URL    string         `json:"url"`
	Name   string         `json:"name"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Screen payment.Screen `json:"screen"`
}

type paymentStatus struct {
	Attempt  payment.Attempt  `json:"attempt"`
	Resolved bool             `json:"resolved"`
	Outcome  *payment.Outcome `json:"outcome,omitempty"`
}

func (s *Server) openPayment(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		http.NotFound(w, r)
		return
	}
	var req openPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.URL == "" {
		s.writeError(w, r, models.NewValidationError("url", "is required"))
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		s.writeError(w, r, models.NewValidationError("width", "width and height must be positive"))
		return
	}
	if req.Name == "" {
		req.Name = "payment"
	}

	attempt, err := s.payments.OpenPopup(req.URL, req.Name, req.Width, req.Height, req.Screen)
	if err != nil {
		if !errors.Is(err, payment.ErrPopupBlocked) {
			err = models.NewValidationError("url", err.Error())
		}
		s.writeError(w, r, err)
		return
	}
	s.publisher.Publish(r.Context(), events.PaymentEvent(events.TypePaymentStarted, events.PaymentData{Session: attempt.Token}, s.now()))
	writeJSON(w, http.StatusCreated, attempt)
}

func (s *Server) closePayment(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		http.NotFound(w, r)
		return
	}
	if err := s.payments.ClosePopup(chi.URLParam(r, "token")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getPayment reports a session. With ?wait=true it blocks until the session
// resolves or the await timeout passes, then reports whatever is known.
func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		http.NotFound(w, r)
		return
	}
	token := chi.URLParam(r, "token")
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		ctx, cancel := context.WithTimeout(r.Context(), s.awaitTimeout)
		_, err := s.payments.Await(ctx, token)
		cancel()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			s.writeError(w, r, err)
			return
		}
	}

	attempt, outcome, resolved, err := s.payments.Status(token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := paymentStatus{Attempt: attempt, Resolved: resolved}
	if resolved {
		status.Outcome = &outcome
	}
	writeJSON(w, http.StatusOK, status)
}

// receivePaymentMessage is the provider callback. The Origin header is the
// message origin; the path token names the session when the payload omits it.
func (s *Server) receivePaymentMessage(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		http.NotFound(w, r)
		return
	}
	var msg payment.Message
	if err := decodeJSON(r, &msg); err != nil {
		s.writeError(w, r, err)
		return
	}
	token := chi.URLParam(r, "token")
	if msg.Payload.Session == "" {
		msg.Payload.Session = token
	}
	if msg.Payload.Session != token {
		s.writeError(w, r, models.NewValidationError("session", "does not match the callback url"))
		return
	}

	if err := s.payments.Receive(r.Header.Get("Origin"), msg); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
