package payment

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/models"
)

const provider = "https://pay.example.com"

type fakeWindow struct {
	mu      sync.Mutex
	focused bool
	closes  int
}

func (w *fakeWindow) Focus() {
	w.mu.Lock()
	w.focused = true
	w.mu.Unlock()
}

func (w *fakeWindow) Close() {
	w.mu.Lock()
	w.closes++
	w.mu.Unlock()
}

func (w *fakeWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closes > 0
}

type fakeOpener struct {
	windows  []*fakeWindow
	features []string
	urls     []string
	err      error
}

func (o *fakeOpener) Open(u, _, features string) (Window, error) {
	if o.err != nil {
		return nil, o.err
	}
	w := &fakeWindow{}
	o.windows = append(o.windows, w)
	o.features = append(o.features, features)
	o.urls = append(o.urls, u)
	return w, nil
}

func open(t *testing.T, b *Bridge) Attempt {
	t.Helper()
	a, err := b.OpenPopup(provider+"/checkout?order=9", "pay", 600, 400,
		Screen{ViewportWidth: 1200, ViewportHeight: 800, AvailWidth: 1200})
	require.NoError(t, err)
	return a
}

func payment(status, token string) Message {
	return Message{Type: models.PaymentMessageType, Payload: Payload{Status: status, Session: token}}
}

func TestOpenPopup(t *testing.T) {
	opener := &fakeOpener{}
	b := NewBridge(opener, []string{provider})

	a := open(t, b)
	require.Len(t, opener.windows, 1)
	assert.True(t, opener.windows[0].focused)
	assert.Equal(t, "scrollbars=yes,width=600,height=400,top=200,left=300", opener.features[0])
	assert.NotEmpty(t, a.Token)

	u, err := url.Parse(opener.urls[0])
	require.NoError(t, err)
	assert.Equal(t, a.Token, u.Query().Get("session"))
	assert.Equal(t, "9", u.Query().Get("order"))
}

func TestOpenPopupBlocked(t *testing.T) {
	b := NewBridge(&fakeOpener{err: errors.New("blocked")}, []string{provider})
	_, err := b.OpenPopup(provider, "pay", 100, 100, Screen{})
	assert.ErrorIs(t, err, ErrPopupBlocked)
}

func TestReceiveResolvesOnceAndClosesPopup(t *testing.T) {
	opener := &fakeOpener{}
	var resolved []Outcome
	b := NewBridge(opener, []string{provider}, OnResolve(func(_ Attempt, o Outcome) { resolved = append(resolved, o) }))
	a := open(t, b)

	require.NoError(t, b.Receive(provider, payment(models.PaymentStatusSuccess, a.Token)))
	assert.ErrorIs(t, b.Receive(provider, payment(models.PaymentStatusFailure, a.Token)), ErrAlreadyResolved)

	out, err := b.Await(context.Background(), a.Token)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, out.Status)
	assert.Equal(t, 1, opener.windows[0].closes)
	assert.Len(t, resolved, 1)
}

func TestReceiveRejectsDisallowedOrigin(t *testing.T) {
	b := NewBridge(&fakeOpener{}, []string{provider})
	a := open(t, b)

	err := b.Receive("https://evil.example.net", payment(models.PaymentStatusSuccess, a.Token))
	assert.ErrorIs(t, err, ErrOriginNotAllowed)
	assert.ErrorIs(t, b.Receive("", payment(models.PaymentStatusSuccess, a.Token)), ErrOriginNotAllowed)

	_, _, resolved, err := b.Status(a.Token)
	require.NoError(t, err)
	assert.False(t, resolved)
}

func TestOriginComparisonIgnoresCaseAndPath(t *testing.T) {
	b := NewBridge(&fakeOpener{}, []string{"HTTPS://Pay.Example.com/"})
	a := open(t, b)
	assert.NoError(t, b.Receive("https://pay.example.com", payment(models.PaymentStatusCancelled, a.Token)))
}

func TestNoAllowedOriginsRejectsEverything(t *testing.T) {
	b := NewBridge(&fakeOpener{}, nil)
	a := open(t, b)
	assert.ErrorIs(t, b.Receive(provider, payment(models.PaymentStatusSuccess, a.Token)), ErrOriginNotAllowed)
}

func TestReceiveRejectsUnexpectedMessages(t *testing.T) {
	b := NewBridge(&fakeOpener{}, []string{provider})
	a := open(t, b)

	err := b.Receive(provider, Message{Type: "RESIZE", Payload: Payload{Session: a.Token}})
	assert.ErrorIs(t, err, ErrUnexpectedMessage)

	err = b.Receive(provider, payment("MAYBE", a.Token))
	assert.ErrorIs(t, err, ErrUnexpectedMessage)

	err = b.Receive(provider, payment(models.PaymentStatusSuccess, "forged"))
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestAwaitHonoursContext(t *testing.T) {
	b := NewBridge(&fakeOpener{}, []string{provider})
	a := open(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := b.Await(ctx, a.Token)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = b.Await(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestAwaitWakesOnReceive(t *testing.T) {
	b := NewBridge(&fakeOpener{}, []string{provider})
	a := open(t, b)

	done := make(chan Outcome, 1)
	go func() {
		out, _ := b.Await(context.Background(), a.Token)
		done <- out
	}()

	require.NoError(t, b.Receive(provider, payment(models.PaymentStatusFailure, a.Token)))
	select {
	case out := <-done:
		assert.Equal(t, models.PaymentStatusFailure, out.Status)
	case <-time.After(time.Second):
		t.Fatal("await did not return")
	}
}

func TestClosePopupIsIdempotent(t *testing.T) {
	opener := &fakeOpener{}
	b := NewBridge(opener, []string{provider})
	a := open(t, b)

	require.NoError(t, b.ClosePopup(a.Token))
	require.NoError(t, b.ClosePopup(a.Token))
	assert.Equal(t, 1, opener.windows[0].closes)

	assert.ErrorIs(t, b.ClosePopup("unknown"), ErrUnknownSession)
}

func TestClosePopupOnlyClosesItsOwnSession(t *testing.T) {
	opener := &fakeOpener{}
	b := NewBridge(opener, []string{provider})
	first := open(t, b)
	open(t, b)

	require.NoError(t, b.ClosePopup(first.Token))
	assert.True(t, opener.windows[0].Closed())
	assert.False(t, opener.windows[1].Closed())
}

func TestSweepDropsOldSessions(t *testing.T) {
	opener := &fakeOpener{}
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	b := NewBridge(opener, []string{provider}, WithSessionTTL(10*time.Minute))
	b.now = func() time.Time { return now }

	resolved := open(t, b)
	require.NoError(t, b.Receive(provider, payment(models.PaymentStatusSuccess, resolved.Token)))
	pending := open(t, b)

	b.mu.Lock()
	pendingSession := b.sessions[pending.Token]
	b.mu.Unlock()

	now = now.Add(5 * time.Minute)
	fresh := open(t, b)
	assert.Equal(t, 0, b.Sweep())
	assert.Equal(t, 3, b.Len())

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 2, b.Sweep())
	assert.Equal(t, 1, b.Len())

	select {
	case <-pendingSession.done:
	default:
		t.Fatal("waiters of an expired session were not released")
	}
	assert.True(t, pendingSession.expired)
	assert.True(t, opener.windows[1].Closed())
	assert.False(t, opener.windows[2].Closed())

	_, _, _, err := b.Status(resolved.Token)
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, _, _, err = b.Status(fresh.Token)
	assert.NoError(t, err)
}

func TestHeadlessOpener(t *testing.T) {
	w, err := HeadlessOpener{}.Open("https://pay.example.com", "pay", "")
	require.NoError(t, err)
	assert.False(t, w.Closed())
	w.Close()
	assert.True(t, w.Closed())
}
