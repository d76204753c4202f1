package booking

import (
	"fmt"
	"time"

	"github.com/chrisdamba/foodsite/internal/models"
)

const (
	DefaultOpen  = "17:00"
	DefaultClose = "22:00"
)

// slotGrid lists bookable start times for one day. A slot exists only if the
// whole sitting ends by closing time.
func slotGrid(day time.Time, hours models.OpeningHours, interval, sitting time.Duration) ([]time.Time, error) {
	open, err := atClock(day, orDefault(hours.Open, DefaultOpen))
	if err != nil {
		return nil, fmt.Errorf("opening time: %w", err)
	}
	closing, err := atClock(day, orDefault(hours.Close, DefaultClose))
	if err != nil {
		return nil, fmt.Errorf("closing time: %w", err)
	}

	var slots []time.Time
	for s := open; !s.Add(sitting).After(closing); s = s.Add(interval) {
		slots = append(slots, s)
	}
	return slots, nil
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(models.TimeLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// bookedTables returns the ids of tables held by a live reservation that
// overlaps [slot, slot+sitting).
func bookedTables(existing []*models.ReservationRecord, slot time.Time, sitting time.Duration, loc *time.Location) map[string]bool {
	booked := make(map[string]bool)
	for _, rec := range existing {
		if rec.Status == models.ReservationStatusCancelled {
			continue
		}
		start, err := rec.Start(loc)
		if err != nil {
			continue
		}
		if start.Before(slot.Add(sitting)) && slot.Before(start.Add(sitting)) {
			booked[rec.TableID] = true
		}
	}
	return booked
}

// tablesAt marks each table free or taken at slot. Tables the restaurant has
// switched off stay unavailable.
func tablesAt(tables []models.Table, booked map[string]bool) []models.Table {
	out := make([]models.Table, len(tables))
	for i, t := range tables {
		t.Available = t.Available && !booked[t.ID]
		out[i] = t
	}
	return out
}

// smallestFit picks the free table with the least spare seats, first by
// listing order on ties.
func smallestFit(tables []models.Table, partySize int) (models.Table, bool) {
	var best models.Table
	found := false
	for _, t := range tables {
		if !t.Available || t.Capacity < partySize {
			continue
		}
		if !found || t.Capacity < best.Capacity {
			best, found = t, true
		}
	}
	return best, found
}
