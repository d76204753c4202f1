package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/models"
)

// Remote is a hosted search backend.
type Remote interface {
	Ping(ctx context.Context) error
	Search(ctx context.Context, query string) (Results, error)
}

// Engine answers queries from the remote backend and falls back to the local
// index once the remote has failed.
type Engine struct {
	local    *Index
	remote   Remote
	logger   zerolog.Logger
	fallback atomic.Bool
}

func NewEngine(local *Index, remote Remote, logger zerolog.Logger) *Engine {
	e := &Engine{local: local, remote: remote, logger: logger.With().Str("component", "search").Logger()}
	if remote == nil {
		e.fallback.Store(true)
	}
	return e
}

// Init checks the remote once. A failed check switches to the local index for
// the life of the engine.
func (e *Engine) Init(ctx context.Context) {
	if e.remote == nil {
		e.logger.Info().Msg("no remote search configured, using local index")
		return
	}
	if err := e.remote.Ping(ctx); err != nil {
		e.activateFallback(err)
	}
}

func (e *Engine) UsingFallback() bool {
	return e.fallback.Load()
}

func (e *Engine) Search(ctx context.Context, query string) (Results, error) {
	if !e.fallback.Load() {
		res, err := e.remote.Search(ctx, query)
		if err == nil {
			return res, nil
		}
		e.activateFallback(err)
	}
	return e.local.Search(query)
}

func (e *Engine) activateFallback(err error) {
	if e.fallback.CompareAndSwap(false, true) {
		e.logger.Warn().Err(err).Msg("remote search unavailable, falling back to local index")
	}
}

// HTTPRemote queries GET {baseURL}?q=<query> and expects Results as JSON.
type HTTPRemote struct {
	baseURL    string
	client     *http.Client
	restaurant string
}

func NewHTTPRemote(baseURL string, timeout time.Duration) *HTTPRemote {
	return &HTTPRemote{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// ForRestaurant scopes every query to one restaurant with a "restaurant"
// query parameter.
func (r *HTTPRemote) ForRestaurant(id string) *HTTPRemote {
	scoped := *r
	scoped.restaurant = id
	return &scoped
}

func (r *HTTPRemote) Ping(ctx context.Context) error {
	_, err := r.Search(ctx, "")
	return err
}

func (r *HTTPRemote) Search(ctx context.Context, query string) (Results, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return Results{}, fmt.Errorf("invalid remote search url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if r.restaurant != "" {
		q.Set("restaurant", r.restaurant)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Results{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return Results{}, &models.NetworkError{Op: "remote search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Results{}, &models.NetworkError{Op: "remote search", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	var res Results
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Results{}, fmt.Errorf("decoding remote search response: %w", err)
	}
	return res, nil
}
