package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"

	"github.com/chrisdamba/foodsite/internal/models"
)

var (
	menuCategories = []string{"Starters", "Mains", "Sides", "Desserts", "Drinks"}
	allergenList   = []string{"gluten", "dairy", "nuts", "egg", "soy", "shellfish"}
	tagList        = []string{"spicy", "signature", "seasonal", "sharing", "chef's pick", "house"}
	meatIngredient = map[string]bool{"Chicken": true, "Beef": true, "Pork": true, "Fish": true}
	animalProduct  = map[string]bool{"Cheese": true, "Egg": true, "Milk": true}
)

type MenuItemFactory struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewMenuItemFactory(seed int64) *MenuItemFactory {
	return &MenuItemFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// CreateMenuItem builds an item for restaurant. Dietary flags follow from the
// generated ingredients.
func (mf *MenuItemFactory) CreateMenuItem(restaurant *models.Restaurant) *models.MenuItem {
	ingredients := mf.randomIngredients()
	vegetarian, vegan := true, true
	for _, ing := range ingredients {
		if meatIngredient[ing] {
			vegetarian, vegan = false, false
		}
		if animalProduct[ing] {
			vegan = false
		}
	}

	return &models.MenuItem{
		ID:           mf.fake.UUID().V4(),
		RestaurantID: restaurant.ID,
		Name:         mf.randomMenuItem(restaurant.Cuisines),
		Description:  mf.fake.Lorem().Sentence(10),
		Price:        models.Cents(int64(mf.rng.Intn(90)+10) * 50), // $5.00 to $49.50
		Category:     menuCategories[mf.rng.Intn(len(menuCategories))],
		Calories:     mf.rng.Intn(900) + 100,
		Vegetarian:   vegetarian,
		Vegan:        vegan,
		GlutenFree:   !contains(ingredients, "Bread") && !contains(ingredients, "Pasta"),
		Allergens:    mf.pick(allergenList, 2),
		Ingredients:  ingredients,
		Tags:         mf.pick(tagList, 2),
		Available:    mf.rng.Float64() < 0.9,
	}
}

// CreateMenu builds n items and links each to up to two pairings from the
// same menu.
func (mf *MenuItemFactory) CreateMenu(restaurant *models.Restaurant, n int) []*models.MenuItem {
	items := make([]*models.MenuItem, n)
	for i := range items {
		items[i] = mf.CreateMenuItem(restaurant)
	}
	for i, item := range items {
		for _, j := range mf.rng.Perm(n)[:min(2, n)] {
			if j != i {
				item.Pairings = append(item.Pairings, items[j].ID)
			}
		}
	}
	return items
}

func (mf *MenuItemFactory) randomIngredients() []string {
	allIngredients := []string{"Chicken", "Beef", "Pork", "Fish", "Tofu", "Cheese", "Tomato", "Lettuce", "Onion", "Garlic", "Bread", "Rice", "Pasta", "Egg", "Milk"}
	perm := mf.rng.Perm(len(allIngredients))
	count := mf.rng.Intn(5) + 2 // 2 to 6 distinct ingredients
	ingredients := make([]string, count)
	for i := 0; i < count; i++ {
		ingredients[i] = allIngredients[perm[i]]
	}
	return ingredients
}

// pick returns up to limit distinct entries of from, possibly none.
func (mf *MenuItemFactory) pick(from []string, limit int) []string {
	n := mf.rng.Intn(limit + 1)
	var out []string
	for _, i := range mf.rng.Perm(len(from))[:n] {
		out = append(out, from[i])
	}
	return out
}

func (mf *MenuItemFactory) randomMenuItem(cuisines []string) string {
	items := map[string][]string{
		"Pizza":         {"Margherita", "Pepperoni", "Hawaiian", "Veggie Supreme"},
		"Burgers":       {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
		"Grill":         {"Grilled Chicken", "BBQ Ribs", "Grilled Salmon", "Mixed Grill Platter"},
		"Salad":         {"Caesar Salad", "Greek Salad", "Cobb Salad", "Quinoa Salad"},
		"Italian":       {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna", "Tiramisu"},
		"Indian":        {"Chicken Tikka Masala", "Vegetable Curry", "Naan Bread", "Biryani"},
		"American":      {"Cheeseburger", "Hot Dog", "BBQ Ribs", "Apple Pie"},
		"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
		"Mexican":       {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
		"Chinese":       {"Kung Pao Chicken", "Fried Rice", "Dumplings", "Mapo Tofu"},
		"Thai":          {"Pad Thai", "Green Curry", "Tom Yum Soup", "Mango Sticky Rice"},
		"Greek":         {"Gyros", "Greek Salad", "Moussaka", "Baklava"},
		"French":        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Crème Brûlée"},
		"Mediterranean": {"Falafel", "Hummus", "Tabbouleh", "Grilled Halloumi"},
	}
	if len(cuisines) == 0 {
		return "Special of the Day"
	}
	cuisine := cuisines[mf.rng.Intn(len(cuisines))]
	if items, ok := items[cuisine]; ok {
		return items[mf.rng.Intn(len(items))]
	}
	return "Special of the Day"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
