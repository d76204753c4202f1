package reservation

import (
	"time"

	"github.com/chrisdamba/foodsite/internal/models"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// OpState is the lifecycle of the latest call of one operation.
type OpState struct {
	Status    Status
	Err       error
	UpdatedAt time.Time
}

// State is a snapshot of everything the booking form renders.
type State struct {
	TimeSlots    OpState
	Availability OpState
	Reservation  OpState

	Slots  []models.TimeSlot
	Tables models.TableAvailability
	Record *models.ReservationRecord
}

func (s State) clone() State {
	out := s
	out.Slots = append([]models.TimeSlot(nil), s.Slots...)
	out.Tables.Tables = append([]models.Table(nil), s.Tables.Tables...)
	if s.Record != nil {
		rec := *s.Record
		out.Record = &rec
	}
	return out
}
