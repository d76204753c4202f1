package factories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/models"
)

func TestCreateRestaurant(t *testing.T) {
	rf := NewRestaurantFactory(7)
	r := rf.CreateRestaurant(6)

	assert.NotEmpty(t, r.ID)
	assert.NotEmpty(t, r.Name)
	assert.Equal(t, r.SlugName+".foodsite.test", r.Domain)
	require.Len(t, r.Tables, 6)
	for _, table := range r.Tables {
		assert.True(t, table.Available)
		assert.GreaterOrEqual(t, table.Capacity, 2)
	}
	assert.NotEmpty(t, r.Cuisines)
	assert.InDelta(t, cityLat, r.Location.Lat, 0.1)
}

func TestUniqueSlugs(t *testing.T) {
	rf := NewRestaurantFactory(1)
	assert.Equal(t, "casa-roma", rf.createUniqueSlug("Casa Roma!"))
	assert.Equal(t, "casa-roma-1", rf.createUniqueSlug("Casa Roma"))
	assert.Equal(t, "restaurant", rf.createUniqueSlug("!!!"))
}

func TestCreateMenuItemDietaryFlags(t *testing.T) {
	mf := NewMenuItemFactory(3)
	restaurant := &models.Restaurant{ID: "r1", Cuisines: []string{"Thai"}}

	for i := 0; i < 50; i++ {
		item := mf.CreateMenuItem(restaurant)
		assert.Equal(t, "r1", item.RestaurantID)
		assert.Positive(t, int64(item.Price))
		if item.Vegan {
			assert.True(t, item.Vegetarian, "vegan implies vegetarian")
		}
		for _, ing := range item.Ingredients {
			if meatIngredient[ing] {
				assert.False(t, item.Vegetarian, item.Name)
			}
		}
	}
}

func TestGenerateCatalog(t *testing.T) {
	calls := 0
	c := GenerateCatalog(models.SeedConfig{Seed: 42, Restaurants: 3, MinItems: 4, MaxItems: 6, Tables: 5}, func() { calls++ })

	assert.Equal(t, 3, calls)
	require.Len(t, c.Restaurants, 3)

	perRestaurant := map[string][]*models.MenuItem{}
	ids := map[string]bool{}
	for _, item := range c.MenuItems {
		perRestaurant[item.RestaurantID] = append(perRestaurant[item.RestaurantID], item)
		ids[item.ID] = true
	}
	for _, r := range c.Restaurants {
		n := len(perRestaurant[r.ID])
		assert.True(t, n >= 4 && n <= 6, "restaurant %s has %d items", r.ID, n)
	}
	for _, item := range c.MenuItems {
		for _, p := range item.Pairings {
			assert.True(t, ids[p], "pairing %s refers to a generated item", p)
			assert.NotEqual(t, item.ID, p)
		}
	}
}
