package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/cloudwriter"
	"github.com/chrisdamba/foodsite/internal/models"
)

func TestLoadFileYAML(t *testing.T) {
	s, err := LoadFile("testdata/site.yaml")
	require.NoError(t, err)

	c := s.Content()
	assert.Equal(t, "Casa Verde", c.Brand.Name)
	assert.Equal(t, "#2f5d3a", c.Brand.Colors["primary"])
	require.Len(t, c.Navigation, 2)
	require.Len(t, c.Hero, 1)
	require.NotNil(t, c.Hero[0].CTA)
	assert.Equal(t, "/reservations", c.Hero[0].CTA.Href)
	assert.Equal(t, []string{"Wed-Sun 17:00-22:00"}, c.Footer.Hours)
}

func TestLoadObjectJSON(t *testing.T) {
	store := cloudwriter.NewMemoryStore()
	store.Put("sites", "casa/content.json", []byte(`{"brand":{"name":"Casa"},"navigation":[{"label":"Home","href":"/"}]}`))

	s, err := LoadObject(context.Background(), store, "sites", "casa/content.json")
	require.NoError(t, err)
	assert.Equal(t, "Casa", s.Brand().Name)
	assert.Equal(t, []models.Link{{Label: "Home", Href: "/"}}, s.Navigation())
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	_, err := Decode([]byte("x"), ".toml")
	assert.ErrorContains(t, err, "unsupported")
}

func TestAccessorsReturnCopies(t *testing.T) {
	s, err := LoadFile("testdata/site.yaml")
	require.NoError(t, err)

	c := s.Content()
	c.Brand.Colors["primary"] = "red"
	c.Hero[0].CTA.Href = "/elsewhere"
	c.Navigation[0].Label = "changed"

	nav := s.Navigation()
	nav[1].Href = "/x"

	again := s.Content()
	assert.Equal(t, "#2f5d3a", again.Brand.Colors["primary"])
	assert.Equal(t, "/reservations", again.Hero[0].CTA.Href)
	assert.Equal(t, "Menu", again.Navigation[0].Label)
	assert.Equal(t, "/reservations", again.Navigation[1].Href)
}

func TestNewCopiesInput(t *testing.T) {
	in := models.SiteContent{Navigation: []models.Link{{Label: "Menu"}}}
	s := New(in)
	in.Navigation[0].Label = "mutated"
	assert.Equal(t, "Menu", s.Navigation()[0].Label)
}

func TestSection(t *testing.T) {
	s, err := LoadFile("testdata/site.yaml")
	require.NoError(t, err)

	footer, err := s.Section("footer")
	require.NoError(t, err)
	assert.Equal(t, "12 Market Street", footer.(models.Footer).Address)

	_, err = s.Section("secret")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestPageTitle(t *testing.T) {
	s := New(models.SiteContent{Brand: models.Brand{Name: "Casa Verde"}})

	assert.Equal(t, "Casa Verde", s.PageTitle("", false))
	assert.Equal(t, "Menu | Casa Verde", s.PageTitle("Menu", false))
	assert.Equal(t, "[Preview] Menu | Casa Verde", s.PageTitle("Menu", true))
	assert.Equal(t, "Casa Verde", s.Brand().Name, "preview does not alter content")

	assert.Equal(t, "Menu", New(models.SiteContent{}).PageTitle("Menu", false))
}
