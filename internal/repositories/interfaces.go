package repositories

import (
	"context"

	"github.com/chrisdamba/foodsite/internal/models"
)

type RestaurantRepository interface {
	BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	GetByDomain(ctx context.Context, domain string) (*models.Restaurant, error)
	GetAll(ctx context.Context) (map[string]*models.Restaurant, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error
	Create(ctx context.Context, menuItem *models.MenuItem) error
	GetAll(ctx context.Context) (map[string]*models.MenuItem, error)
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.MenuItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// BookFunc inspects the reservations already held for a restaurant and date
// and returns the record to insert, or an error to abort.
type BookFunc func(existing []*models.ReservationRecord) (*models.ReservationRecord, error)

type ReservationRepository interface {
	// Book runs decide and the insert of its result as one atomic step per
	// restaurant and date, so two bookings cannot both see a table as free.
	Book(ctx context.Context, restaurantID, date string, decide BookFunc) (*models.ReservationRecord, error)
	GetByID(ctx context.Context, id string) (*models.ReservationRecord, error)
	ListByRestaurantDate(ctx context.Context, restaurantID, date string) ([]*models.ReservationRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	GetAll(ctx context.Context) ([]*models.ReservationRecord, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// Store bundles the repositories a running site needs.
type Store struct {
	Restaurants  RestaurantRepository
	MenuItems    MenuItemRepository
	Reservations ReservationRepository
	Close        func()
}
