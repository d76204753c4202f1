// Package booking is the reservation backend: it derives time slots from
// opening hours, assigns tables and records reservations.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/events"
	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/repositories"
	"github.com/chrisdamba/foodsite/internal/reservation"
)

var (
	ErrSlotUnavailable   = models.ErrSlotUnavailable
	ErrInvalidTransition = errors.New("invalid reservation status transition")
)

type Config struct {
	SlotInterval    time.Duration
	SittingDuration time.Duration
	Location        *time.Location
}

type Service struct {
	restaurants  repositories.RestaurantRepository
	reservations repositories.ReservationRepository
	publisher    *events.Publisher
	logger       zerolog.Logger

	interval time.Duration
	sitting  time.Duration
	loc      *time.Location
	now      func() time.Time
	newID    func() string
}

func NewService(store *repositories.Store, cfg Config, publisher *events.Publisher, logger zerolog.Logger) *Service {
	s := &Service{
		restaurants:  store.Restaurants,
		reservations: store.Reservations,
		publisher:    publisher,
		logger:       logger.With().Str("component", "booking").Logger(),
		interval:     cfg.SlotInterval,
		sitting:      cfg.SittingDuration,
		loc:          cfg.Location,
		now:          time.Now,
		newID:        cuid.New,
	}
	if s.interval <= 0 {
		s.interval = 30 * time.Minute
	}
	if s.sitting <= 0 {
		s.sitting = 90 * time.Minute
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

func (s *Service) TimeSlots(ctx context.Context, req reservation.TimeSlotsRequest) ([]models.TimeSlot, error) {
	if req.PartySize < 1 {
		return nil, models.NewValidationError("party_size", "must be at least 1")
	}
	restaurant, day, err := s.load(ctx, req.RestaurantID, req.Date)
	if err != nil {
		return nil, err
	}
	grid, err := slotGrid(day, restaurant.Hours, s.interval, s.sitting)
	if err != nil {
		return nil, err
	}
	existing, err := s.reservations.ListByRestaurantDate(ctx, restaurant.ID, req.Date)
	if err != nil {
		return nil, err
	}

	now := s.now()
	slots := make([]models.TimeSlot, 0, len(grid))
	for _, slot := range grid {
		tables := tablesAt(restaurant.Tables, bookedTables(existing, slot, s.sitting, s.loc))
		_, fits := smallestFit(tables, req.PartySize)
		slots = append(slots, models.TimeSlot{
			Time:      slot.Format(models.TimeLayout),
			Available: fits && slot.After(now),
		})
	}
	return slots, nil
}

func (s *Service) Availability(ctx context.Context, req reservation.AvailabilityRequest) (models.TableAvailability, error) {
	if req.PartySize < 1 {
		return models.TableAvailability{}, models.NewValidationError("party_size", "must be at least 1")
	}
	restaurant, day, err := s.load(ctx, req.RestaurantID, req.Date)
	if err != nil {
		return models.TableAvailability{}, err
	}
	slot, err := s.onGrid(day, restaurant.Hours, req.Time)
	if err != nil {
		return models.TableAvailability{}, err
	}
	existing, err := s.reservations.ListByRestaurantDate(ctx, restaurant.ID, req.Date)
	if err != nil {
		return models.TableAvailability{}, err
	}
	return models.TableAvailability{
		Date:      req.Date,
		Time:      req.Time,
		PartySize: req.PartySize,
		Tables:    tablesAt(restaurant.Tables, bookedTables(existing, slot, s.sitting, s.loc)),
	}, nil
}

// Create assigns the smallest free table that seats the party. The check and
// the insert happen atomically per restaurant and date.
func (s *Service) Create(ctx context.Context, req models.ReservationRequest) (models.ReservationRecord, error) {
	if err := reservation.Validate(req); err != nil {
		return models.ReservationRecord{}, err
	}
	restaurant, day, err := s.load(ctx, req.RestaurantID, req.Date)
	if err != nil {
		return models.ReservationRecord{}, err
	}
	slot, err := s.onGrid(day, restaurant.Hours, req.Time)
	if err != nil {
		return models.ReservationRecord{}, err
	}
	if !slot.After(s.now()) {
		return models.ReservationRecord{}, models.NewValidationError("time", "is in the past")
	}

	rec, err := s.reservations.Book(ctx, restaurant.ID, req.Date, func(existing []*models.ReservationRecord) (*models.ReservationRecord, error) {
		tables := tablesAt(restaurant.Tables, bookedTables(existing, slot, s.sitting, s.loc))
		table, ok := smallestFit(tables, req.PartySize)
		if !ok {
			return nil, ErrSlotUnavailable
		}
		return &models.ReservationRecord{
			ReservationRequest: req,
			ID:                 s.newID(),
			TableID:            table.ID,
			Status:             models.ReservationStatusConfirmed,
			CreatedAt:          s.now().UTC(),
		}, nil
	})
	if err != nil {
		return models.ReservationRecord{}, err
	}

	s.logger.Info().
		Str("restaurant_id", rec.RestaurantID).
		Str("reservation_id", rec.ID).
		Str("table_id", rec.TableID).
		Str("slot", rec.Date+" "+rec.Time).
		Msg("reservation confirmed")
	s.publisher.Publish(ctx, events.ReservationEvent(events.TypeReservationCreated, *rec, s.now()))
	return *rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.ReservationRecord, error) {
	rec, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return models.ReservationRecord{}, err
	}
	return *rec, nil
}

// Cancel is idempotent for cancelled reservations. Completed ones cannot be
// cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (models.ReservationRecord, error) {
	rec, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return models.ReservationRecord{}, err
	}
	switch rec.Status {
	case models.ReservationStatusCancelled:
		return *rec, nil
	case models.ReservationStatusCompleted:
		return models.ReservationRecord{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, rec.Status, models.ReservationStatusCancelled)
	}

	if err := s.reservations.UpdateStatus(ctx, id, models.ReservationStatusCancelled); err != nil {
		return models.ReservationRecord{}, err
	}
	rec.Status = models.ReservationStatusCancelled

	s.logger.Info().Str("reservation_id", id).Msg("reservation cancelled")
	s.publisher.Publish(ctx, events.ReservationEvent(events.TypeReservationCancelled, *rec, s.now()))
	return *rec, nil
}

func (s *Service) load(ctx context.Context, restaurantID, date string) (*models.Restaurant, time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, s.loc)
	if err != nil {
		return nil, time.Time{}, models.NewValidationError("date", "must be YYYY-MM-DD")
	}
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("restaurant %q: %w", restaurantID, err)
	}
	return restaurant, day, nil
}

// onGrid resolves clock on day and checks it is a bookable slot.
func (s *Service) onGrid(day time.Time, hours models.OpeningHours, clock string) (time.Time, error) {
	slot, err := atClock(day, clock)
	if err != nil {
		return time.Time{}, models.NewValidationError("time", "must be HH:MM")
	}
	grid, err := slotGrid(day, hours, s.interval, s.sitting)
	if err != nil {
		return time.Time{}, err
	}
	for _, g := range grid {
		if g.Equal(slot) {
			return slot, nil
		}
	}
	return time.Time{}, models.NewValidationError("time", "is not a bookable slot")
}

var _ reservation.RPC = (*Service)(nil)
