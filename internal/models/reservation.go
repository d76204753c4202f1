package models

import "time"

type ReservationRequest struct {
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"` // YYYY-MM-DD
	Time         string `json:"time"` // HH:MM
	PartySize    int    `json:"party_size"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes,omitempty"`
}

// ReservationRecord is the server's view of a booking. Status changes are made
// by the booking service only.
type ReservationRecord struct {
	ReservationRequest
	ID        string    `json:"id"`
	TableID   string    `json:"table_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Start combines Date and Time in loc.
func (r ReservationRequest) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.Date+" "+r.Time, loc)
}

type TimeSlot struct {
	Time      string `json:"slot_time"`
	Available bool   `json:"available"`
}

type TableAvailability struct {
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	PartySize int     `json:"party_size"`
	Tables    []Table `json:"tables"`
}

// OpenTables lists free tables large enough for the party.
func (a TableAvailability) OpenTables() []Table {
	var open []Table
	for _, t := range a.Tables {
		if t.Available && t.Capacity >= a.PartySize {
			open = append(open, t)
		}
	}
	return open
}

func (a TableAvailability) HasOpenTable() bool {
	return len(a.OpenTables()) > 0
}
