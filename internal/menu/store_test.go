package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/models"
)

func TestLoadFile(t *testing.T) {
	s, err := LoadFile("testdata/menu.json")
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 4)
	assert.Equal(t, []string{"1", "10", "11", "30"}, ids(items))
	assert.Equal(t, models.Cents(1850), items[1].Price)
	assert.Equal(t, "320kcal", items[0].Nutrients["calories"])

	assert.Equal(t, []string{"1", "10", "30"}, ids(s.Available()))

	cats := s.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, "starters", cats[0].Key)
}

func TestItemAndPairings(t *testing.T) {
	s, err := LoadFile("testdata/menu.json")
	require.NoError(t, err)

	it, err := s.Item("10")
	require.NoError(t, err)
	assert.Equal(t, "Roast Chicken", it.Name)

	pairs, err := s.Pairings("10")
	require.NoError(t, err)
	assert.Equal(t, []string{"30"}, ids(pairs))

	_, err = s.Item("nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestByCategory(t *testing.T) {
	s, err := LoadFile("testdata/menu.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11"}, ids(s.ByCategory("mains")))
	assert.Empty(t, s.ByCategory("drinks"))
}

func TestNewStoreRejectsDuplicateIDs(t *testing.T) {
	_, err := NewStore(models.Menu{Items: map[string][]models.MenuItem{
		"mains":    {{ID: "1", Category: "mains"}},
		"desserts": {{ID: "1", Category: "desserts"}},
	}})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
}

func TestNewStoreRejectsUnknownCategory(t *testing.T) {
	_, err := NewStore(models.Menu{
		Categories: []models.Category{{Key: "mains"}},
		Items:      map[string][]models.MenuItem{"mains": {{ID: "1", Category: "specials"}}},
	})
	assert.True(t, models.IsValidation(err))

	_, err = NewStore(models.Menu{
		Categories: []models.Category{{Key: "mains"}},
		Items:      map[string][]models.MenuItem{"drinks": {{ID: "1"}}},
	})
	assert.True(t, models.IsValidation(err))
}

func TestNewStoreDerivesCategories(t *testing.T) {
	s, err := NewStore(models.Menu{Items: map[string][]models.MenuItem{
		"mains":    {{ID: "2"}},
		"desserts": {{ID: "1"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(s.Items()))
	assert.Equal(t, "mains", s.Items()[1].Category)
}

func TestItemsAreCopies(t *testing.T) {
	s, err := LoadFile("testdata/menu.json")
	require.NoError(t, err)
	items := s.Items()
	items[0].Allergens[0] = "none"
	again, err := s.Item("1")
	require.NoError(t, err)
	assert.Equal(t, "gluten", again.Allergens[0])
}

func TestMenuRoundTripsToWireShape(t *testing.T) {
	s, err := LoadFile("testdata/menu.json")
	require.NoError(t, err)
	m := s.Menu()
	assert.Len(t, m.Items["mains"], 2)
	assert.Len(t, m.Categories, 3)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$27.50", FormatPrice(models.Cents(2750)))
	assert.Equal(t, "$0.99", FormatPrice(models.Cents(99)))
	assert.Equal(t, "-$1.00", FormatPrice(models.Cents(-100)))
}

func ids(items []models.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFromItems(t *testing.T) {
	s, err := FromItems([]models.MenuItem{
		{ID: "a", Name: "Soup", Category: "Starters"},
		{ID: "b", Name: "Steak", Category: "Mains"},
		{ID: "c", Name: "Bread", Category: "Starters"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(s.Items()))

	_, err = FromItems([]models.MenuItem{{ID: "x"}})
	assert.True(t, models.IsValidation(err))
}
