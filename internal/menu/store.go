package menu

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/chrisdamba/foodsite/internal/models"
)

// Store is a validated, read-only menu. Item order follows category position
// and then the order items were listed in.
type Store struct {
	categories []models.Category
	items      []models.MenuItem
	byID       map[string]int
}

// NewStore checks that ids are unique and that every item's category is
// known. When the menu lists no categories they are derived from the item
// map keys in sorted order.
func NewStore(m models.Menu) (*Store, error) {
	cats := append([]models.Category(nil), m.Categories...)
	if len(cats) == 0 {
		keys := make([]string, 0, len(m.Items))
		for k := range m.Items {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			cats = append(cats, models.Category{Key: k, Name: k, Position: i})
		}
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Position < cats[j].Position })

	known := make(map[string]bool, len(cats))
	for _, c := range cats {
		known[c.Key] = true
	}
	for key := range m.Items {
		if !known[key] {
			return nil, models.NewValidationError("category", fmt.Sprintf("items listed under unknown category %q", key))
		}
	}

	s := &Store{categories: cats, byID: make(map[string]int)}
	for _, c := range cats {
		for _, it := range m.Items[c.Key] {
			if it.ID == "" {
				return nil, models.NewValidationError("id", fmt.Sprintf("item %q has no id", it.Name))
			}
			if _, dup := s.byID[it.ID]; dup {
				return nil, models.NewValidationError("id", fmt.Sprintf("duplicate item id %q", it.ID))
			}
			if it.Category == "" {
				it.Category = c.Key
			}
			if !known[it.Category] {
				return nil, models.NewValidationError("category", fmt.Sprintf("item %q references unknown category %q", it.ID, it.Category))
			}
			s.byID[it.ID] = len(s.items)
			s.items = append(s.items, it.Clone())
		}
	}
	return s, nil
}

// FromItems groups a flat item list by each item's Category.
func FromItems(items []models.MenuItem) (*Store, error) {
	m := models.Menu{Items: make(map[string][]models.MenuItem)}
	for _, it := range items {
		if it.Category == "" {
			return nil, models.NewValidationError("category", fmt.Sprintf("item %q has no category", it.ID))
		}
		m.Items[it.Category] = append(m.Items[it.Category], it)
	}
	return NewStore(m)
}

func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading menu file: %w", err)
	}
	var m models.Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding menu file %s: %w", path, err)
	}
	return NewStore(m)
}

func (s *Store) Items() []models.MenuItem {
	return cloneItems(s.items)
}

// Available excludes items marked unavailable.
func (s *Store) Available() []models.MenuItem {
	var out []models.MenuItem
	for _, it := range s.items {
		if it.Available {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (s *Store) Item(id string) (models.MenuItem, error) {
	i, ok := s.byID[id]
	if !ok {
		return models.MenuItem{}, fmt.Errorf("menu item %q: %w", id, models.ErrNotFound)
	}
	return s.items[i].Clone(), nil
}

func (s *Store) ByCategory(key string) []models.MenuItem {
	var out []models.MenuItem
	for _, it := range s.items {
		if it.Category == key {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (s *Store) Categories() []models.Category {
	return append([]models.Category(nil), s.categories...)
}

// Pairings resolves an item's pairing ids, skipping ids not on the menu.
func (s *Store) Pairings(id string) ([]models.MenuItem, error) {
	it, err := s.Item(id)
	if err != nil {
		return nil, err
	}
	var out []models.MenuItem
	for _, pid := range it.Pairings {
		if p, err := s.Item(pid); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// Menu converts back to the wire shape.
func (s *Store) Menu() models.Menu {
	m := models.Menu{Categories: s.Categories(), Items: make(map[string][]models.MenuItem)}
	for _, it := range s.items {
		m.Items[it.Category] = append(m.Items[it.Category], it.Clone())
	}
	return m
}

func cloneItems(items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// FormatPrice renders a price for display, e.g. "$27.50".
func FormatPrice(m models.Money) string {
	if m < 0 {
		return "-$" + (-m).String()
	}
	return "$" + m.String()
}
