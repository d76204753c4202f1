package factories

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/chrisdamba/foodsite/internal/models"
)

const (
	cityLat     = 51.5074
	cityLon     = -0.1278
	urbanRadius = 10.0 // km
)

var (
	templates     = []string{"casual", "pizza", "journey", "bistro"}
	openingTimes  = []string{"17:00", "17:30", "18:00"}
	closingTimes  = []string{"22:00", "22:30", "23:00"}
	tableCapacity = []int{2, 2, 2, 4, 4, 4, 6, 8}
)

// RestaurantFactory builds demo tenants. Two factories with the same seed
// produce the same tenants apart from their cuid ids.
type RestaurantFactory struct {
	fake      faker.Faker
	rng       *rand.Rand
	slugCache sync.Map // used slugs
}

func NewRestaurantFactory(seed int64) *RestaurantFactory {
	return &RestaurantFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (rf *RestaurantFactory) CreateRestaurant(tables int) *models.Restaurant {
	latRange := urbanRadius / 111.0
	lonRange := latRange / math.Cos(cityLat*math.Pi/180.0)

	lat := cityLat + (rf.rng.Float64()*2-1)*latRange
	lon := cityLon + (rf.rng.Float64()*2-1)*lonRange

	name := rf.fake.Company().Name()
	slug := rf.createUniqueSlug(name)

	return &models.Restaurant{
		ID:             cuid.New(),
		Domain:         slug + ".foodsite.test",
		Name:           name,
		SlugName:       slug,
		Template:       templates[rf.rng.Intn(len(templates))],
		Currency:       "USD",
		Phone:          rf.fake.Phone().Number(),
		Town:           rf.fake.Address().City(),
		WebsiteLogoURL: rf.fake.Internet().URL(),
		Location:       models.Location{Lat: lat, Lon: lon},
		Cuisines:       rf.randomCuisines(),
		Hours: models.OpeningHours{
			Open:  openingTimes[rf.rng.Intn(len(openingTimes))],
			Close: closingTimes[rf.rng.Intn(len(closingTimes))],
		},
		Tables: rf.createTables(tables),
	}
}

func (rf *RestaurantFactory) createTables(n int) []models.Table {
	tables := make([]models.Table, n)
	for i := range tables {
		tables[i] = models.Table{
			ID:        fmt.Sprintf("t%d", i+1),
			Capacity:  tableCapacity[rf.rng.Intn(len(tableCapacity))],
			Available: true,
		}
	}
	return tables
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = "restaurant"
	}

	slug := base
	counter := 1

	for {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}

func (rf *RestaurantFactory) randomCuisines() []string {
	allCuisines := []string{"Italian", "Indian", "American", "Japanese", "Mexican", "Chinese", "Thai", "Greek", "French", "Mediterranean", "Pizza", "Grill", "Burgers", "Salad"}
	perm := rf.rng.Perm(len(allCuisines))
	count := rf.rng.Intn(3) + 1 // 1 to 3 distinct cuisines
	cuisines := make([]string, count)
	for i := 0; i < count; i++ {
		cuisines[i] = allCuisines[perm[i]]
	}
	return cuisines
}
