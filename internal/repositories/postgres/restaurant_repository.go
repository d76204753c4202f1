package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/foodsite/internal/models"
)

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

const insertRestaurant = `
    INSERT INTO restaurants (
        id, domain, name, slug_name, template, currency, phone, town,
        website_logo_url, lat, lon, cuisines, open_time, close_time
    ) VALUES (
        $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
    )
`

const selectRestaurant = `
    SELECT
        id, domain, name, slug_name, template, currency, phone, town,
        website_logo_url, lat, lon, cuisines, open_time, close_time
    FROM restaurants
`

func restaurantArgs(r *models.Restaurant) []any {
	return []any{
		r.ID,
		r.Domain,
		r.Name,
		r.SlugName,
		r.Template,
		r.Currency,
		r.Phone,
		r.Town,
		r.WebsiteLogoURL,
		r.Location.Lat,
		r.Location.Lon,
		r.Cuisines,
		r.Hours.Open,
		r.Hours.Close,
	}
}

func (r *RestaurantRepository) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, restaurant := range restaurants {
		if err := insertRestaurantTx(ctx, tx, restaurant); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertRestaurantTx(ctx, tx, restaurant); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertRestaurantTx(ctx context.Context, tx pgx.Tx, restaurant *models.Restaurant) error {
	if _, err := tx.Exec(ctx, insertRestaurant, restaurantArgs(restaurant)...); err != nil {
		return fmt.Errorf("inserting restaurant %s: %w", restaurant.ID, err)
	}
	for _, t := range restaurant.Tables {
		_, err := tx.Exec(ctx,
			`INSERT INTO restaurant_tables (id, restaurant_id, capacity, available) VALUES ($1, $2, $3, $4)`,
			t.ID, restaurant.ID, t.Capacity, t.Available,
		)
		if err != nil {
			return fmt.Errorf("inserting table %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return r.getOne(ctx, selectRestaurant+" WHERE id = $1", id)
}

func (r *RestaurantRepository) GetByDomain(ctx context.Context, domain string) (*models.Restaurant, error) {
	return r.getOne(ctx, selectRestaurant+" WHERE domain = $1", domain)
}

func (r *RestaurantRepository) getOne(ctx context.Context, query string, arg string) (*models.Restaurant, error) {
	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	tables, err := r.tables(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}
	restaurant.Tables = tables[restaurant.ID]
	return restaurant, nil
}

func (r *RestaurantRepository) GetAll(ctx context.Context) (map[string]*models.Restaurant, error) {
	rows, err := r.pool.Query(ctx, selectRestaurant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := make(map[string]*models.Restaurant)
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants[restaurant.ID] = restaurant
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Then attach tables for all restaurants
	tables, err := r.tables(ctx, "")
	if err != nil {
		return nil, err
	}
	for id, ts := range tables {
		if restaurant, exists := restaurants[id]; exists {
			restaurant.Tables = ts
		}
	}
	return restaurants, nil
}

// tables loads tables keyed by restaurant id; an empty id loads all.
func (r *RestaurantRepository) tables(ctx context.Context, restaurantID string) (map[string][]models.Table, error) {
	query := `SELECT restaurant_id, id, capacity, available FROM restaurant_tables`
	var args []any
	if restaurantID != "" {
		query += ` WHERE restaurant_id = $1`
		args = append(args, restaurantID)
	}
	query += ` ORDER BY restaurant_id, capacity, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.Table)
	for rows.Next() {
		var rid string
		var t models.Table
		if err := rows.Scan(&rid, &t.ID, &t.Capacity, &t.Available); err != nil {
			return nil, err
		}
		out[rid] = append(out[rid], t)
	}
	return out, rows.Err()
}

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{}
	err := row.Scan(
		&restaurant.ID,
		&restaurant.Domain,
		&restaurant.Name,
		&restaurant.SlugName,
		&restaurant.Template,
		&restaurant.Currency,
		&restaurant.Phone,
		&restaurant.Town,
		&restaurant.WebsiteLogoURL,
		&restaurant.Location.Lat,
		&restaurant.Location.Lon,
		&restaurant.Cuisines,
		&restaurant.Hours.Open,
		&restaurant.Hours.Close,
	)
	if err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (r *RestaurantRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

func (r *RestaurantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE restaurants CASCADE")
	return err
}
