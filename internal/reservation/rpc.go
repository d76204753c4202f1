package reservation

import (
	"context"

	"github.com/chrisdamba/foodsite/internal/models"
)

// RPC is the reservation backend. Implementations return models.ErrNotFound,
// models.ErrSlotUnavailable and *models.ValidationError as-is; anything else
// is treated as a network failure by Client.
type RPC interface {
	TimeSlots(ctx context.Context, req TimeSlotsRequest) ([]models.TimeSlot, error)
	Availability(ctx context.Context, req AvailabilityRequest) (models.TableAvailability, error)
	Create(ctx context.Context, req models.ReservationRequest) (models.ReservationRecord, error)
	Get(ctx context.Context, id string) (models.ReservationRecord, error)
	Cancel(ctx context.Context, id string) (models.ReservationRecord, error)
}

type TimeSlotsRequest struct {
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	PartySize    int    `json:"party_size"`
}

type AvailabilityRequest struct {
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"party_size"`
}

// ErrorBody is the JSON error envelope of the reservation endpoints.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
