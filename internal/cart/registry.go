package cart

import (
	"sync"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/foodsite/internal/models"
)

// DefaultIdleTTL is how long an untouched cart is kept.
const DefaultIdleTTL = 24 * time.Hour

type entry struct {
	cart    *Cart
	touched time.Time
}

// Registry keeps carts by id for the HTTP API. Carts nobody has looked up
// for the idle TTL are dropped by Sweep.
type Registry struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	carts map[string]*entry
}

// NewRegistry keeps idle carts for ttl; zero or less means DefaultIdleTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{ttl: ttl, now: time.Now, carts: make(map[string]*entry)}
}

func (r *Registry) Create() *Cart {
	c := New(cuid.New())
	r.mu.Lock()
	r.carts[c.ID()] = &entry{cart: c, touched: r.now()}
	r.mu.Unlock()
	return c
}

// Get returns the cart and marks it as used.
func (r *Registry) Get(id string) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.carts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	e.touched = r.now()
	return e.cart, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.carts, id)
	r.mu.Unlock()
}

// Sweep drops carts idle for at least the TTL and returns how many went.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.carts {
		if !e.touched.After(cutoff) {
			delete(r.carts, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
