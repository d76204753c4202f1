// Package payment runs the hosted payment popup. The checkout opens a popup
// on the payment provider; the provider reports back with a PAYMENT message
// that is accepted only from an allow-listed origin and only for a session
// token this bridge issued.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/models"
)

var (
	ErrOriginNotAllowed  = errors.New("message origin not allowed")
	ErrUnexpectedMessage = errors.New("unexpected message")
	ErrUnknownSession    = errors.New("unknown payment session")
	ErrAlreadyResolved   = errors.New("payment session already resolved")
	ErrPopupBlocked      = errors.New("popup could not be opened")
	ErrSessionExpired    = errors.New("payment session expired")
)

// DefaultSessionTTL bounds how long a session is kept after its popup opens,
// resolved or not.
const DefaultSessionTTL = 30 * time.Minute

type Window interface {
	Focus()
	Close()
	Closed() bool
}

type Opener interface {
	Open(url, name, features string) (Window, error)
}

type Payload struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

type Message struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

type Outcome struct {
	Session    string    `json:"session"`
	Status     string    `json:"status"`
	Origin     string    `json:"origin"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Attempt is one opened popup waiting for its outcome.
type Attempt struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	Placement Placement `json:"placement"`
	Features  string    `json:"features"`
	OpenedAt  time.Time `json:"opened_at"`
}

type session struct {
	attempt  Attempt
	window   Window
	done     chan struct{}
	outcome  Outcome
	resolved bool
	expired  bool
}

type BridgeOption func(*Bridge)

// OnResolve registers a callback run once per resolved session, outside the
// bridge lock.
func OnResolve(fn func(Attempt, Outcome)) BridgeOption {
	return func(b *Bridge) { b.onResolve = fn }
}

func WithBridgeLogger(logger zerolog.Logger) BridgeOption {
	return func(b *Bridge) { b.logger = logger }
}

func WithSessionTTL(ttl time.Duration) BridgeOption {
	return func(b *Bridge) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

type Bridge struct {
	opener    Opener
	allowed   map[string]bool
	logger    zerolog.Logger
	onResolve func(Attempt, Outcome)
	now       func() time.Time
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// NewBridge accepts messages only from allowedOrigins. With none configured
// every message is rejected.
func NewBridge(opener Opener, allowedOrigins []string, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		opener:   opener,
		allowed:  make(map[string]bool),
		logger:   zerolog.Nop(),
		now:      time.Now,
		ttl:      DefaultSessionTTL,
		sessions: make(map[string]*session),
	}
	for _, o := range allowedOrigins {
		if n, err := normalizeOrigin(o); err == nil {
			b.allowed[n] = true
		}
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.allowed) == 0 {
		b.logger.Warn().Msg("no payment origins allowed, all payment messages will be rejected")
	}
	return b
}

// OpenPopup opens and focuses a centered popup and registers a new session.
// The session token is appended to the URL as "session".
func (b *Bridge) OpenPopup(rawURL, name string, w, h float64, screen Screen) (Attempt, error) {
	token := cuid.New()
	target, err := withSession(rawURL, token)
	if err != nil {
		return Attempt{}, err
	}

	placement := CenterPopup(screen, w, h)
	features := placement.Features()
	win, err := b.opener.Open(target, name, features)
	if err != nil {
		return Attempt{}, fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}
	if win == nil {
		return Attempt{}, ErrPopupBlocked
	}
	win.Focus()

	attempt := Attempt{
		Token:     token,
		URL:       target,
		Name:      name,
		Placement: placement,
		Features:  features,
		OpenedAt:  b.now(),
	}

	b.mu.Lock()
	b.sessions[token] = &session{attempt: attempt, window: win, done: make(chan struct{})}
	b.mu.Unlock()

	b.logger.Info().Str("session", token).Msg("payment popup opened")
	return attempt, nil
}

// ClosePopup closes the popup of one session. Closing it again does
// nothing.
func (b *Bridge) ClosePopup(token string) error {
	b.mu.Lock()
	s, ok := b.sessions[token]
	b.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	closeWindow(s.window)
	return nil
}

// Receive handles a message posted by the payment provider.
func (b *Bridge) Receive(origin string, msg Message) error {
	n, err := normalizeOrigin(origin)
	if err != nil || !b.allowed[n] {
		b.logger.Warn().Str("origin", origin).Msg("payment message from disallowed origin")
		return ErrOriginNotAllowed
	}
	if msg.Type != models.PaymentMessageType {
		return fmt.Errorf("%w: type %q", ErrUnexpectedMessage, msg.Type)
	}
	switch msg.Payload.Status {
	case models.PaymentStatusSuccess, models.PaymentStatusFailure, models.PaymentStatusCancelled:
	default:
		return fmt.Errorf("%w: status %q", ErrUnexpectedMessage, msg.Payload.Status)
	}

	b.mu.Lock()
	s, ok := b.sessions[msg.Payload.Session]
	if !ok {
		b.mu.Unlock()
		return ErrUnknownSession
	}
	if s.resolved {
		b.mu.Unlock()
		return ErrAlreadyResolved
	}
	s.resolved = true
	s.outcome = Outcome{
		Session:    msg.Payload.Session,
		Status:     msg.Payload.Status,
		Origin:     n,
		ResolvedAt: b.now(),
	}
	close(s.done)
	attempt, outcome := s.attempt, s.outcome
	b.mu.Unlock()

	closeWindow(s.window)
	b.logger.Info().Str("session", outcome.Session).Str("status", outcome.Status).Msg("payment resolved")
	if b.onResolve != nil {
		b.onResolve(attempt, outcome)
	}
	return nil
}

// Await blocks until the session resolves or ctx is done.
func (b *Bridge) Await(ctx context.Context, token string) (Outcome, error) {
	b.mu.Lock()
	s, ok := b.sessions[token]
	b.mu.Unlock()
	if !ok {
		return Outcome{}, ErrUnknownSession
	}

	select {
	case <-s.done:
		b.mu.Lock()
		defer b.mu.Unlock()
		if s.expired {
			return Outcome{}, ErrSessionExpired
		}
		return s.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Status reports the outcome so far without blocking.
func (b *Bridge) Status(token string) (Attempt, Outcome, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[token]
	if !ok {
		return Attempt{}, Outcome{}, false, ErrUnknownSession
	}
	return s.attempt, s.outcome, s.resolved, nil
}

// Sweep drops sessions opened more than the session TTL ago. Unresolved ones
// have their popup closed and their waiters get ErrSessionExpired. It returns
// the number of sessions dropped.
func (b *Bridge) Sweep() int {
	cutoff := b.now().Add(-b.ttl)

	var expired []Window
	dropped := 0
	b.mu.Lock()
	for token, s := range b.sessions {
		if s.attempt.OpenedAt.After(cutoff) {
			continue
		}
		if !s.resolved {
			s.expired = true
			close(s.done)
			expired = append(expired, s.window)
		}
		delete(b.sessions, token)
		dropped++
	}
	b.mu.Unlock()

	for _, w := range expired {
		closeWindow(w)
	}
	if dropped > 0 {
		b.logger.Info().Int("dropped", dropped).Int("expired", len(expired)).Msg("payment sessions swept")
	}
	return dropped
}

// Len is the number of sessions held.
func (b *Bridge) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

func closeWindow(w Window) {
	if w != nil && !w.Closed() {
		w.Close()
	}
}

func normalizeOrigin(origin string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid origin %q", origin)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}

func withSession(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid payment url: %w", err)
	}
	q := u.Query()
	q.Set("session", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
