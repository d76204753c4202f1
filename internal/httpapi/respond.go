package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/chrisdamba/foodsite/internal/booking"
	"github.com/chrisdamba/foodsite/internal/content"
	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/payment"
	"github.com/chrisdamba/foodsite/internal/search"
)

// errorBody matches reservation.ErrorBody so the RPC client can decode it.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case models.IsValidation(err),
		errors.Is(err, payment.ErrUnexpectedMessage),
		errors.Is(err, content.ErrUnknownSection):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, payment.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSlotUnavailable),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, payment.ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, payment.ErrOriginNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, payment.ErrSessionExpired):
		return http.StatusGone
	case errors.Is(err, search.ErrIndexNotReady):
		return http.StatusServiceUnavailable
	case models.IsNetwork(err), errors.Is(err, payment.ErrPopupBlocked):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	body := errorBody{Error: err.Error()}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body = errorBody{Error: verr.Message, Field: verr.Field}
	}
	if code == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		body = errorBody{Error: "internal error"}
	}
	writeJSON(w, code, body)
}

const maxBody = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return models.NewValidationError("", fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
