package search

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/models"
)

// Tenants keeps one Engine per restaurant. A query only ever sees the menu of
// the restaurant it names.
type Tenants struct {
	weights Weights
	remote  func(restaurantID string) Remote
	logger  zerolog.Logger

	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewTenants builds engines with weights w. remote may be nil, or return nil
// for a restaurant without a hosted index.
func NewTenants(w Weights, remote func(restaurantID string) Remote, logger zerolog.Logger) *Tenants {
	return &Tenants{
		weights: w,
		remote:  remote,
		logger:  logger,
		engines: make(map[string]*Engine),
	}
}

// Build indexes one restaurant's items and replaces its engine. The engine is
// registered before the index is built, so queries in between get
// ErrIndexNotReady.
func (t *Tenants) Build(ctx context.Context, restaurantID string, items []models.MenuItem, progress func(percent int)) *Engine {
	var remote Remote
	if t.remote != nil {
		remote = t.remote(restaurantID)
	}
	index := NewIndex(t.weights)
	engine := NewEngine(index, remote, t.logger.With().Str("restaurant_id", restaurantID).Logger())

	t.mu.Lock()
	t.engines[restaurantID] = engine
	t.mu.Unlock()

	engine.Init(ctx)
	index.Build(items, progress)
	return engine
}

// Search answers query from restaurantID's engine. A restaurant that has not
// been indexed yet gets ErrIndexNotReady.
func (t *Tenants) Search(ctx context.Context, restaurantID, query string) (Results, error) {
	t.mu.RLock()
	engine, ok := t.engines[restaurantID]
	t.mu.RUnlock()
	if !ok {
		return Results{}, ErrIndexNotReady
	}
	return engine.Search(ctx, query)
}

// Restaurants lists the indexed restaurant ids, sorted.
func (t *Tenants) Restaurants() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.engines))
	for id := range t.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
