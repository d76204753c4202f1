package factories

import (
	"math/rand"

	"github.com/chrisdamba/foodsite/internal/models"
)

// Catalog is a generated set of tenants and their menus.
type Catalog struct {
	Restaurants []*models.Restaurant
	MenuItems   []*models.MenuItem
}

// GenerateCatalog builds cfg.Restaurants tenants with MinItems..MaxItems menu
// items each. progress, if set, is called once per restaurant.
func GenerateCatalog(cfg models.SeedConfig, progress func()) Catalog {
	rf := NewRestaurantFactory(cfg.Seed)
	mf := NewMenuItemFactory(cfg.Seed + 1)
	rng := rand.New(rand.NewSource(cfg.Seed + 2))

	var c Catalog
	for i := 0; i < cfg.Restaurants; i++ {
		restaurant := rf.CreateRestaurant(cfg.Tables)
		n := cfg.MinItems
		if cfg.MaxItems > cfg.MinItems {
			n += rng.Intn(cfg.MaxItems - cfg.MinItems + 1)
		}
		c.Restaurants = append(c.Restaurants, restaurant)
		c.MenuItems = append(c.MenuItems, mf.CreateMenu(restaurant, n)...)
		if progress != nil {
			progress()
		}
	}
	return c
}
