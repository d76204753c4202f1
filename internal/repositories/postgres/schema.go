package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/foodsite/internal/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS restaurants (
    id               TEXT PRIMARY KEY,
    domain           TEXT NOT NULL UNIQUE,
    name             TEXT NOT NULL,
    slug_name        TEXT NOT NULL,
    template         TEXT NOT NULL DEFAULT '',
    currency         TEXT NOT NULL DEFAULT 'USD',
    phone            TEXT NOT NULL DEFAULT '',
    town             TEXT NOT NULL DEFAULT '',
    website_logo_url TEXT NOT NULL DEFAULT '',
    lat              DOUBLE PRECISION NOT NULL DEFAULT 0,
    lon              DOUBLE PRECISION NOT NULL DEFAULT 0,
    cuisines         TEXT[] NOT NULL DEFAULT '{}',
    open_time        TEXT NOT NULL DEFAULT '17:00',
    close_time       TEXT NOT NULL DEFAULT '22:00'
);

CREATE TABLE IF NOT EXISTS restaurant_tables (
    id            TEXT NOT NULL,
    restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
    capacity      INT NOT NULL,
    available     BOOLEAN NOT NULL DEFAULT TRUE,
    PRIMARY KEY (restaurant_id, id)
);

CREATE TABLE IF NOT EXISTS menu_items (
    id            TEXT NOT NULL,
    restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
    name          TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    price_cents   BIGINT NOT NULL,
    category      TEXT NOT NULL,
    sub_category  TEXT NOT NULL DEFAULT '',
    calories      INT NOT NULL DEFAULT 0,
    nutrients     JSONB,
    vegetarian    BOOLEAN NOT NULL DEFAULT FALSE,
    vegan         BOOLEAN NOT NULL DEFAULT FALSE,
    gluten_free   BOOLEAN NOT NULL DEFAULT FALSE,
    allergens     TEXT[] NOT NULL DEFAULT '{}',
    ingredients   TEXT[] NOT NULL DEFAULT '{}',
    tags          TEXT[] NOT NULL DEFAULT '{}',
    pairings      TEXT[] NOT NULL DEFAULT '{}',
    available     BOOLEAN NOT NULL DEFAULT TRUE,
    image         TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (restaurant_id, id)
);

CREATE TABLE IF NOT EXISTS reservations (
    id               TEXT PRIMARY KEY,
    restaurant_id    TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
    reservation_date DATE NOT NULL,
    slot_time        TEXT NOT NULL,
    party_size       INT NOT NULL CHECK (party_size > 0),
    name             TEXT NOT NULL,
    email            TEXT NOT NULL,
    phone            TEXT NOT NULL DEFAULT '',
    notes            TEXT NOT NULL DEFAULT '',
    table_id         TEXT NOT NULL,
    status           TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS reservations_restaurant_date_idx
    ON reservations (restaurant_id, reservation_date);
`

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Connect opens a pool and checks it with a ping.
func Connect(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// ErrNoPool is returned by Open when no database url is configured.
var ErrNoPool = errors.New("no database url configured")

// Open connects, migrates and returns the repositories backed by PostgreSQL.
func Open(ctx context.Context, url string, maxConns int32) (*repositories.Store, error) {
	if url == "" {
		return nil, ErrNoPool
	}
	pool, err := Connect(ctx, url, maxConns)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &repositories.Store{
		Restaurants:  NewRestaurantRepository(pool),
		MenuItems:    NewMenuItemRepository(pool),
		Reservations: NewReservationRepository(pool),
		Close:        pool.Close,
	}, nil
}
