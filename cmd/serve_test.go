package cmd

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/repositories/memory"
)

func TestTenantMenusSplitsByRestaurant(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = &models.Config{}

	ctx := context.Background()
	store := memory.NewStore()
	for _, id := range []string{"r1", "r2"} {
		require.NoError(t, store.Restaurants.Create(ctx, &models.Restaurant{ID: id, Domain: id + ".test"}))
	}
	require.NoError(t, store.MenuItems.BulkCreate(ctx, []*models.MenuItem{
		{ID: "b", RestaurantID: "r1", Name: "Soup", Category: "starters", Available: true},
		{ID: "a", RestaurantID: "r1", Name: "Steak", Category: "mains", Available: true},
		{ID: "c", RestaurantID: "r2", Name: "Ramen", Category: "mains", Available: true},
	}))

	menus, err := tenantMenus(ctx, store)
	require.NoError(t, err)
	require.Len(t, menus, 2)
	require.Len(t, menus["r1"], 2)
	assert.Equal(t, "a", menus["r1"][0].ID)
	require.Len(t, menus["r2"], 1)
	assert.Equal(t, "c", menus["r2"][0].ID)
	assert.Equal(t, []string{"r1", "r2"}, sortedKeys(menus))

	cfg.Menu.RestaurantID = "r2"
	menus, err = tenantMenus(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, sortedKeys(menus))

	cfg.Menu = models.MenuConfig{Path: "menu.json"}
	_, err = tenantMenus(ctx, store)
	assert.Error(t, err)
}

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestSweepRunsUntilCancelled(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })
	logger = zerolog.Nop()

	ctx, cancel := context.WithCancel(context.Background())
	a, b := &countingSweeper{}, &countingSweeper{}
	done := make(chan struct{})
	go func() {
		sweep(ctx, time.Millisecond, a, b)
		close(done)
	}()

	assert.Eventually(t, func() bool { return a.calls.Load() >= 2 && b.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop")
	}
}
