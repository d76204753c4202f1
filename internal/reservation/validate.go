package reservation

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/chrisdamba/foodsite/internal/models"
)

// Validate checks a request before anything is sent.
func Validate(req models.ReservationRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return models.NewValidationError("name", "is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil || !strings.Contains(req.Email, "@") {
		return models.NewValidationError("email", "is not a valid address")
	}
	if req.Phone != "" && digits(req.Phone) < 7 {
		return models.NewValidationError("phone", "must contain at least 7 digits")
	}
	if req.PartySize < 1 {
		return models.NewValidationError("party_size", "must be at least 1")
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return models.NewValidationError("date", "must be YYYY-MM-DD")
	}
	if _, err := time.Parse(models.TimeLayout, req.Time); err != nil {
		return models.NewValidationError("time", "must be HH:MM")
	}
	return nil
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
