// Package reservation is the booking form's view of the reservation backend.
//
// Time-slot lookups are debounced, and every operation is latest-wins: a new
// call cancels the one in flight, and a superseded call never writes state.
package reservation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/inflight"
	"github.com/chrisdamba/foodsite/internal/models"
)

const DefaultDebounceWindow = time.Second

var (
	ErrDebounced       = errors.New("time slot request dropped by debounce")
	ErrSuperseded      = errors.New("request superseded by a newer call")
	ErrSlotUnavailable = models.ErrSlotUnavailable
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Option func(*Client)

func WithDebounceWindow(d time.Duration) Option {
	return func(c *Client) { c.debounce = d }
}

func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

type Client struct {
	rpc          RPC
	restaurantID string
	debounce     time.Duration
	clock        Clock
	logger       zerolog.Logger

	slotsCalls inflight.Tracker
	availCalls inflight.Tracker
	bookCalls  inflight.Tracker

	mu            sync.Mutex
	state         State
	lastSlotFetch time.Time
}

func NewClient(rpc RPC, restaurantID string, opts ...Option) *Client {
	c := &Client{
		rpc:          rpc,
		restaurantID: restaurantID,
		debounce:     DefaultDebounceWindow,
		clock:        systemClock{},
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = State{
		TimeSlots:    OpState{Status: StatusIdle},
		Availability: OpState{Status: StatusIdle},
		Reservation:  OpState{Status: StatusIdle},
	}
	return c
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// FetchTimeSlots is dropped with ErrDebounced when it comes within the
// debounce window of the last dispatched fetch, including one still in
// flight. A fetch that fails releases the window it took.
func (c *Client) FetchTimeSlots(ctx context.Context, date string, partySize int) ([]models.TimeSlot, error) {
	dispatched := c.clock.Now()
	c.mu.Lock()
	if !c.lastSlotFetch.IsZero() && dispatched.Sub(c.lastSlotFetch) < c.debounce {
		c.mu.Unlock()
		c.logger.Debug().Str("date", date).Msg("time slot fetch debounced")
		return nil, ErrDebounced
	}
	previous := c.lastSlotFetch
	c.lastSlotFetch = dispatched
	c.mu.Unlock()

	callCtx, seq, done := c.slotsCalls.Begin(ctx)
	defer done()
	c.setLoading(&c.slotsCalls, seq, func(s *State) *OpState { return &s.TimeSlots })

	slots, err := c.rpc.TimeSlots(callCtx, TimeSlotsRequest{
		RestaurantID: c.restaurantID,
		Date:         date,
		PartySize:    partySize,
	})
	err = classify("time slots", err)
	if err != nil {
		c.mu.Lock()
		if c.lastSlotFetch.Equal(dispatched) {
			c.lastSlotFetch = previous
		}
		c.mu.Unlock()
	}

	committed := c.slotsCalls.Commit(seq, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state.TimeSlots = c.opState(StatusError, err)
			return
		}
		c.state.TimeSlots = c.opState(StatusSuccess, nil)
		c.state.Slots = append([]models.TimeSlot(nil), slots...)
	})
	if !committed {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// FetchAvailability always hits the backend; results are not cached.
func (c *Client) FetchAvailability(ctx context.Context, date, slot string, partySize int) (models.TableAvailability, error) {
	callCtx, seq, done := c.availCalls.Begin(ctx)
	defer done()
	c.setLoading(&c.availCalls, seq, func(s *State) *OpState { return &s.Availability })

	avail, err := c.rpc.Availability(callCtx, AvailabilityRequest{
		RestaurantID: c.restaurantID,
		Date:         date,
		Time:         slot,
		PartySize:    partySize,
	})
	err = classify("availability", err)

	committed := c.availCalls.Commit(seq, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state.Availability = c.opState(StatusError, err)
			return
		}
		c.state.Availability = c.opState(StatusSuccess, nil)
		c.state.Tables = avail
	})
	if !committed {
		return models.TableAvailability{}, ErrSuperseded
	}
	return avail, err
}

// CreateReservation validates req, re-checks availability for the slot and
// only then asks the backend to create it. A slot with no fitting open table
// fails with ErrSlotUnavailable without a create call.
func (c *Client) CreateReservation(ctx context.Context, req models.ReservationRequest) (models.ReservationRecord, error) {
	if req.RestaurantID == "" {
		req.RestaurantID = c.restaurantID
	}

	callCtx, seq, done := c.bookCalls.Begin(ctx)
	defer done()

	if err := Validate(req); err != nil {
		if !c.bookCalls.Commit(seq, func() {
			c.mu.Lock()
			c.state.Reservation = c.opState(StatusError, err)
			c.mu.Unlock()
		}) {
			return models.ReservationRecord{}, ErrSuperseded
		}
		return models.ReservationRecord{}, err
	}
	c.setLoading(&c.bookCalls, seq, func(s *State) *OpState { return &s.Reservation })

	rec, err := c.create(callCtx, req)

	committed := c.bookCalls.Commit(seq, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state.Reservation = c.opState(StatusError, err)
			return
		}
		c.state.Reservation = c.opState(StatusSuccess, nil)
		c.state.Record = &rec
	})
	if !committed {
		return models.ReservationRecord{}, ErrSuperseded
	}
	if err != nil {
		c.logger.Info().Err(err).Str("date", req.Date).Str("time", req.Time).Msg("reservation not created")
		return models.ReservationRecord{}, err
	}
	c.logger.Info().Str("reservation_id", rec.ID).Str("table_id", rec.TableID).Msg("reservation created")
	return rec, nil
}

func (c *Client) create(ctx context.Context, req models.ReservationRequest) (models.ReservationRecord, error) {
	avail, err := c.rpc.Availability(ctx, AvailabilityRequest{
		RestaurantID: req.RestaurantID,
		Date:         req.Date,
		Time:         req.Time,
		PartySize:    req.PartySize,
	})
	if err != nil {
		return models.ReservationRecord{}, classify("availability re-check", err)
	}
	if !avail.HasOpenTable() {
		return models.ReservationRecord{}, ErrSlotUnavailable
	}
	rec, err := c.rpc.Create(ctx, req)
	if err != nil {
		return models.ReservationRecord{}, classify("create reservation", err)
	}
	return rec, nil
}

func (c *Client) GetReservation(ctx context.Context, id string) (models.ReservationRecord, error) {
	rec, err := c.rpc.Get(ctx, id)
	return rec, classify("get reservation", err)
}

func (c *Client) CancelReservation(ctx context.Context, id string) (models.ReservationRecord, error) {
	rec, err := c.rpc.Cancel(ctx, id)
	return rec, classify("cancel reservation", err)
}

func (c *Client) setLoading(tr *inflight.Tracker, seq uint64, op func(*State) *OpState) {
	tr.Commit(seq, func() {
		c.mu.Lock()
		*op(&c.state) = c.opState(StatusLoading, nil)
		c.mu.Unlock()
	})
}

func (c *Client) opState(status Status, err error) OpState {
	return OpState{Status: status, Err: err, UpdatedAt: c.clock.Now()}
}

// classify passes domain errors through and turns everything else into a
// NetworkError.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrSlotUnavailable),
		models.IsValidation(err),
		models.IsNetwork(err):
		return err
	default:
		return &models.NetworkError{Op: op, Err: err}
	}
}
