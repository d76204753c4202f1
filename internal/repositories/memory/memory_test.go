package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/models"
)

func TestRestaurantRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRestaurantRepository()
	require.NoError(t, repo.BulkCreate(ctx, []*models.Restaurant{
		{ID: "r1", Domain: "casa.test", Name: "Casa", Tables: []models.Table{{ID: "t1", Capacity: 2}}},
		{ID: "r2", Domain: "luigi.test", Name: "Luigi"},
	}))

	r, err := repo.GetByDomain(ctx, "casa.test")
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)

	r.Tables[0].Capacity = 99
	again, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Tables[0].Capacity)

	_, err = repo.GetByDomain(ctx, "nowhere.test")
	assert.ErrorIs(t, err, models.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.DeleteAll(ctx))
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMenuItemRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuItemRepository()
	require.NoError(t, repo.BulkCreate(ctx, []*models.MenuItem{
		{ID: "1", RestaurantID: "r1", Name: "Soup"},
		{ID: "2", RestaurantID: "r2", Name: "Pie"},
		{ID: "3", RestaurantID: "r1", Name: "Cake"},
	}))

	items, err := repo.GetByRestaurantID(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Soup", items[0].Name)
	assert.Equal(t, "Cake", items[1].Name)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "r2/2")
}

func TestReservationRepositoryBook(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()

	book := func(id string) error {
		_, err := repo.Book(ctx, "r1", "2026-05-02", func(existing []*models.ReservationRecord) (*models.ReservationRecord, error) {
			if len(existing) > 0 {
				return nil, models.ErrSlotUnavailable
			}
			return &models.ReservationRecord{
				ID:                 id,
				ReservationRequest: models.ReservationRequest{RestaurantID: "r1", Date: "2026-05-02", Time: "19:00"},
				Status:             models.ReservationStatusConfirmed,
			}, nil
		})
		return err
	}

	require.NoError(t, book("a"))
	assert.ErrorIs(t, book("b"), models.ErrSlotUnavailable)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.UpdateStatus(ctx, "a", models.ReservationStatusCancelled))
	rec, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, rec.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "zzz", models.ReservationStatusCancelled), models.ErrNotFound)
	_, err = repo.GetByID(ctx, "zzz")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
