package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/repositories"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const selectReservation = `
    SELECT
        id, restaurant_id, reservation_date, slot_time, party_size,
        name, email, phone, notes, table_id, status, created_at
    FROM reservations
`

// Book holds a transaction-scoped advisory lock on (restaurant, date) while
// decide runs and the result is inserted.
func (r *ReservationRepository) Book(ctx context.Context, restaurantID, date string, decide repositories.BookFunc) (*models.ReservationRecord, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, restaurantID, date); err != nil {
		return nil, fmt.Errorf("locking %s/%s: %w", restaurantID, date, err)
	}

	existing, err := queryReservations(ctx, tx, selectReservation+" WHERE restaurant_id = $1 AND reservation_date = $2", restaurantID, date)
	if err != nil {
		return nil, err
	}
	rec, err := decide(existing)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO reservations (
            id, restaurant_id, reservation_date, slot_time, party_size,
            name, email, phone, notes, table_id, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `,
		rec.ID,
		rec.RestaurantID,
		rec.Date,
		rec.Time,
		rec.PartySize,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.Notes,
		rec.TableID,
		rec.Status,
		rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting reservation: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*models.ReservationRecord, error) {
	recs, err := queryReservations(ctx, r.pool, selectReservation+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, models.ErrNotFound
	}
	return recs[0], nil
}

func (r *ReservationRepository) ListByRestaurantDate(ctx context.Context, restaurantID, date string) ([]*models.ReservationRecord, error) {
	return queryReservations(ctx, r.pool, selectReservation+" WHERE restaurant_id = $1 AND reservation_date = $2 ORDER BY slot_time", restaurantID, date)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE reservations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ReservationRepository) GetAll(ctx context.Context) ([]*models.ReservationRecord, error) {
	return queryReservations(ctx, r.pool, selectReservation+" ORDER BY restaurant_id, reservation_date, slot_time")
}

func (r *ReservationRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reservations").Scan(&count)
	return count, err
}

func (r *ReservationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE reservations")
	return err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryReservations(ctx context.Context, q querier, query string, args ...any) ([]*models.ReservationRecord, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ReservationRecord
	for rows.Next() {
		rec := &models.ReservationRecord{}
		var date time.Time
		err := rows.Scan(
			&rec.ID,
			&rec.RestaurantID,
			&date,
			&rec.Time,
			&rec.PartySize,
			&rec.Name,
			&rec.Email,
			&rec.Phone,
			&rec.Notes,
			&rec.TableID,
			&rec.Status,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Date = date.Format(models.DateLayout)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var (
	_ repositories.ReservationRepository = (*ReservationRepository)(nil)
	_ repositories.RestaurantRepository  = (*RestaurantRepository)(nil)
	_ repositories.MenuItemRepository    = (*MenuItemRepository)(nil)
)
