package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type fakeRPC struct {
	mu          sync.Mutex
	slotCalls   int
	availCalls  int
	createCalls int

	slotsFn func(ctx context.Context, req TimeSlotsRequest) ([]models.TimeSlot, error)
	avail   models.TableAvailability
	availFn func(ctx context.Context, req AvailabilityRequest) (models.TableAvailability, error)
	created models.ReservationRecord
	err     error
}

func (f *fakeRPC) TimeSlots(ctx context.Context, req TimeSlotsRequest) ([]models.TimeSlot, error) {
	f.mu.Lock()
	f.slotCalls++
	fn := f.slotsFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	return []models.TimeSlot{{Time: "18:00", Available: true}, {Time: "18:30", Available: false}}, f.err
}

func (f *fakeRPC) Availability(ctx context.Context, req AvailabilityRequest) (models.TableAvailability, error) {
	f.mu.Lock()
	f.availCalls++
	fn := f.availFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	a := f.avail
	a.PartySize = req.PartySize
	return a, f.err
}

func (f *fakeRPC) Create(_ context.Context, req models.ReservationRequest) (models.ReservationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	rec := f.created
	rec.ReservationRequest = req
	return rec, nil
}

func (f *fakeRPC) Get(_ context.Context, id string) (models.ReservationRecord, error) {
	if id != f.created.ID {
		return models.ReservationRecord{}, models.ErrNotFound
	}
	return f.created, nil
}

func (f *fakeRPC) Cancel(_ context.Context, id string) (models.ReservationRecord, error) {
	rec := f.created
	rec.Status = models.ReservationStatusCancelled
	return rec, nil
}

func validRequest() models.ReservationRequest {
	return models.ReservationRequest{
		Date:      "2026-05-02",
		Time:      "19:00",
		PartySize: 4,
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 20 7946 0000",
	}
}

func TestFetchTimeSlotsDebounce(t *testing.T) {
	rpc := &fakeRPC{}
	clock := newFakeClock()
	c := NewClient(rpc, "r1", WithClock(clock))
	ctx := context.Background()

	slots, err := c.FetchTimeSlots(ctx, "2026-05-02", 2)
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	clock.Advance(400 * time.Millisecond)
	_, err = c.FetchTimeSlots(ctx, "2026-05-02", 2)
	assert.ErrorIs(t, err, ErrDebounced)

	clock.Advance(599 * time.Millisecond)
	_, err = c.FetchTimeSlots(ctx, "2026-05-03", 2)
	assert.ErrorIs(t, err, ErrDebounced)
	assert.Equal(t, 1, rpc.slotCalls)

	clock.Advance(time.Millisecond)
	_, err = c.FetchTimeSlots(ctx, "2026-05-03", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rpc.slotCalls)
}

func TestFailedFetchDoesNotArmDebounce(t *testing.T) {
	rpc := &fakeRPC{err: errors.New("connection reset")}
	c := NewClient(rpc, "r1", WithClock(newFakeClock()))

	_, err := c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
	assert.True(t, models.IsNetwork(err))
	assert.Equal(t, StatusError, c.State().TimeSlots.Status)

	rpc.err = nil
	_, err = c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rpc.slotCalls)
	assert.Equal(t, StatusSuccess, c.State().TimeSlots.Status)
}

func TestDebounceCoversFetchInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	rpc := &fakeRPC{}
	rpc.slotsFn = func(ctx context.Context, req TimeSlotsRequest) ([]models.TimeSlot, error) {
		close(started)
		<-release
		return []models.TimeSlot{{Time: "18:00", Available: true}}, nil
	}
	clock := newFakeClock()
	c := NewClient(rpc, "r1", WithClock(clock))

	errCh := make(chan error, 1)
	go func() {
		_, err := c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
		errCh <- err
	}()
	<-started

	for _, date := range []string{"2026-05-03", "2026-05-04"} {
		clock.Advance(100 * time.Millisecond)
		_, err := c.FetchTimeSlots(context.Background(), date, 2)
		assert.ErrorIs(t, err, ErrDebounced)
	}

	close(release)
	require.NoError(t, <-errCh)
	assert.Equal(t, 1, rpc.slotCalls)
	assert.Equal(t, StatusSuccess, c.State().TimeSlots.Status)
}

func TestFailedFetchInFlightReleasesWindow(t *testing.T) {
	rpc := &fakeRPC{err: errors.New("connection reset")}
	clock := newFakeClock()
	c := NewClient(rpc, "r1", WithClock(clock))

	_, err := c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
	require.Error(t, err)

	rpc.err = nil
	clock.Advance(100 * time.Millisecond)
	_, err = c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
	require.NoError(t, err)

	clock.Advance(100 * time.Millisecond)
	_, err = c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
	assert.ErrorIs(t, err, ErrDebounced)
	assert.Equal(t, 2, rpc.slotCalls)
}

func TestConfigurableDebounceWindow(t *testing.T) {
	rpc := &fakeRPC{}
	clock := newFakeClock()
	c := NewClient(rpc, "r1", WithClock(clock), WithDebounceWindow(100*time.Millisecond))

	_, err := c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
	require.NoError(t, err)
	clock.Advance(150 * time.Millisecond)
	_, err = c.FetchTimeSlots(context.Background(), "2026-05-02", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rpc.slotCalls)
}

func TestSupersededCallDoesNotWriteState(t *testing.T) {
	started := make(chan struct{})
	rpc := &fakeRPC{}
	rpc.availFn = func(ctx context.Context, req AvailabilityRequest) (models.TableAvailability, error) {
		if req.Time == "18:00" {
			close(started)
			<-ctx.Done()
			return models.TableAvailability{}, ctx.Err()
		}
		return models.TableAvailability{Date: req.Date, Time: req.Time, PartySize: req.PartySize,
			Tables: []models.Table{{ID: "t2", Capacity: 4, Available: true}}}, nil
	}
	c := NewClient(rpc, "r1")

	errCh := make(chan error, 1)
	go func() {
		_, err := c.FetchAvailability(context.Background(), "2026-05-02", "18:00", 2)
		errCh <- err
	}()
	<-started

	avail, err := c.FetchAvailability(context.Background(), "2026-05-02", "20:00", 2)
	require.NoError(t, err)
	assert.Equal(t, "20:00", avail.Time)

	assert.ErrorIs(t, <-errCh, ErrSuperseded)
	st := c.State()
	assert.Equal(t, StatusSuccess, st.Availability.Status)
	assert.Equal(t, "20:00", st.Tables.Time)
}

func TestCreateReservationSlotUnavailable(t *testing.T) {
	rpc := &fakeRPC{avail: models.TableAvailability{Tables: []models.Table{
		{ID: "t1", Capacity: 2, Available: true},
		{ID: "t2", Capacity: 6, Available: false},
	}}}
	c := NewClient(rpc, "r1")

	_, err := c.CreateReservation(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 1, rpc.availCalls)
	assert.Equal(t, 0, rpc.createCalls)
	assert.Equal(t, StatusError, c.State().Reservation.Status)
}

func TestCreateReservation(t *testing.T) {
	rpc := &fakeRPC{
		avail:   models.TableAvailability{Tables: []models.Table{{ID: "t4", Capacity: 4, Available: true}}},
		created: models.ReservationRecord{ID: "res_1", TableID: "t4", Status: models.ReservationStatusConfirmed},
	}
	c := NewClient(rpc, "r1")

	rec, err := c.CreateReservation(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "res_1", rec.ID)
	assert.Equal(t, "r1", rec.RestaurantID)
	assert.Equal(t, 1, rpc.createCalls)

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Reservation.Status)
	require.NotNil(t, st.Record)
	assert.Equal(t, "t4", st.Record.TableID)
}

func TestCreateReservationValidatesFirst(t *testing.T) {
	rpc := &fakeRPC{}
	c := NewClient(rpc, "r1")

	req := validRequest()
	req.Email = "not-an-email"
	_, err := c.CreateReservation(context.Background(), req)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, 0, rpc.availCalls)
	assert.Equal(t, 0, rpc.createCalls)
}

func TestInvalidCreateSupersedesCreateInFlight(t *testing.T) {
	started := make(chan struct{})
	rpc := &fakeRPC{created: models.ReservationRecord{ID: "res_1", Status: models.ReservationStatusConfirmed}}
	rpc.availFn = func(ctx context.Context, req AvailabilityRequest) (models.TableAvailability, error) {
		close(started)
		<-ctx.Done()
		return models.TableAvailability{}, ctx.Err()
	}
	c := NewClient(rpc, "r1")

	errCh := make(chan error, 1)
	go func() {
		_, err := c.CreateReservation(context.Background(), validRequest())
		errCh <- err
	}()
	<-started

	req := validRequest()
	req.Phone = "12"
	_, err := c.CreateReservation(context.Background(), req)
	require.True(t, models.IsValidation(err))

	assert.ErrorIs(t, <-errCh, ErrSuperseded)
	st := c.State()
	assert.Equal(t, StatusError, st.Reservation.Status)
	assert.True(t, models.IsValidation(st.Reservation.Err))
	assert.Nil(t, st.Record)
	assert.Equal(t, 0, rpc.createCalls)
}

func TestPassThroughLookups(t *testing.T) {
	rpc := &fakeRPC{created: models.ReservationRecord{ID: "res_9", Status: models.ReservationStatusConfirmed}}
	c := NewClient(rpc, "r1")

	rec, err := c.GetReservation(context.Background(), "res_9")
	require.NoError(t, err)
	assert.Equal(t, "res_9", rec.ID)

	_, err = c.GetReservation(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	rec, err = c.CancelReservation(context.Background(), "res_9")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, rec.Status)
}

func TestInitialStateIsIdle(t *testing.T) {
	st := NewClient(&fakeRPC{}, "r1").State()
	assert.Equal(t, StatusIdle, st.TimeSlots.Status)
	assert.Equal(t, StatusIdle, st.Availability.Status)
	assert.Equal(t, StatusIdle, st.Reservation.Status)
}
