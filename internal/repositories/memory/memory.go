// Package memory implements the repositories in process. It is the default
// store when no database is configured and the store used by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/repositories"
)

func NewStore() *repositories.Store {
	return &repositories.Store{
		Restaurants:  NewRestaurantRepository(),
		MenuItems:    NewMenuItemRepository(),
		Reservations: NewReservationRepository(),
		Close:        func() {},
	}
}

type RestaurantRepository struct {
	mu          sync.RWMutex
	restaurants map[string]*models.Restaurant
}

func NewRestaurantRepository() *RestaurantRepository {
	return &RestaurantRepository{restaurants: make(map[string]*models.Restaurant)}
}

func (r *RestaurantRepository) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	for _, restaurant := range restaurants {
		if err := r.Create(ctx, restaurant); err != nil {
			return err
		}
	}
	return nil
}

func (r *RestaurantRepository) Create(_ context.Context, restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restaurants[restaurant.ID] = cloneRestaurant(restaurant)
	return nil
}

func (r *RestaurantRepository) GetByID(_ context.Context, id string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	restaurant, ok := r.restaurants[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneRestaurant(restaurant), nil
}

func (r *RestaurantRepository) GetByDomain(_ context.Context, domain string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, restaurant := range r.restaurants {
		if restaurant.Domain == domain {
			return cloneRestaurant(restaurant), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *RestaurantRepository) GetAll(_ context.Context) (map[string]*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*models.Restaurant, len(r.restaurants))
	for id, restaurant := range r.restaurants {
		out[id] = cloneRestaurant(restaurant)
	}
	return out, nil
}

func (r *RestaurantRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.restaurants), nil
}

func (r *RestaurantRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restaurants = make(map[string]*models.Restaurant)
	return nil
}

func cloneRestaurant(r *models.Restaurant) *models.Restaurant {
	out := *r
	out.Cuisines = append([]string(nil), r.Cuisines...)
	out.Tables = append([]models.Table(nil), r.Tables...)
	return &out
}

type MenuItemRepository struct {
	mu    sync.RWMutex
	items []*models.MenuItem
}

func NewMenuItemRepository() *MenuItemRepository {
	return &MenuItemRepository{}
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	for _, mi := range menuItems {
		if err := r.Create(ctx, mi); err != nil {
			return err
		}
	}
	return nil
}

func (r *MenuItemRepository) Create(_ context.Context, menuItem *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mi := menuItem.Clone()
	r.items = append(r.items, &mi)
	return nil
}

func (r *MenuItemRepository) GetAll(_ context.Context) (map[string]*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*models.MenuItem, len(r.items))
	for _, mi := range r.items {
		c := mi.Clone()
		out[mi.RestaurantID+"/"+mi.ID] = &c
	}
	return out, nil
}

// GetByRestaurantID returns items in insertion order.
func (r *MenuItemRepository) GetByRestaurantID(_ context.Context, restaurantID string) ([]*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.MenuItem
	for _, mi := range r.items {
		if mi.RestaurantID == restaurantID {
			c := mi.Clone()
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *MenuItemRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MenuItemRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	return nil
}

type ReservationRepository struct {
	mu           sync.Mutex
	reservations map[string]*models.ReservationRecord
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{reservations: make(map[string]*models.ReservationRecord)}
}

// Book holds the repository lock across decide and the insert.
func (r *ReservationRepository) Book(_ context.Context, restaurantID, date string, decide repositories.BookFunc) (*models.ReservationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := decide(r.list(restaurantID, date))
	if err != nil {
		return nil, err
	}
	stored := *rec
	r.reservations[rec.ID] = &stored
	return rec, nil
}

func (r *ReservationRepository) GetByID(_ context.Context, id string) (*models.ReservationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.reservations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (r *ReservationRepository) ListByRestaurantDate(_ context.Context, restaurantID, date string) ([]*models.ReservationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(restaurantID, date), nil
}

func (r *ReservationRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.reservations[id]
	if !ok {
		return models.ErrNotFound
	}
	rec.Status = status
	return nil
}

func (r *ReservationRepository) GetAll(_ context.Context) ([]*models.ReservationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.ReservationRecord, 0, len(r.reservations))
	for _, rec := range r.reservations {
		c := *rec
		out = append(out, &c)
	}
	sortReservations(out)
	return out, nil
}

func (r *ReservationRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reservations), nil
}

func (r *ReservationRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations = make(map[string]*models.ReservationRecord)
	return nil
}

// list must be called with r.mu held.
func (r *ReservationRepository) list(restaurantID, date string) []*models.ReservationRecord {
	var out []*models.ReservationRecord
	for _, rec := range r.reservations {
		if rec.RestaurantID == restaurantID && rec.Date == date {
			c := *rec
			out = append(out, &c)
		}
	}
	sortReservations(out)
	return out
}

func sortReservations(recs []*models.ReservationRecord) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.RestaurantID != b.RestaurantID {
			return a.RestaurantID < b.RestaurantID
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
}

var (
	_ repositories.RestaurantRepository  = (*RestaurantRepository)(nil)
	_ repositories.MenuItemRepository    = (*MenuItemRepository)(nil)
	_ repositories.ReservationRepository = (*ReservationRepository)(nil)
)
