package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DietaryVegetarian = "vegetarian"
	DietaryVegan      = "vegan"
	DietaryGlutenFree = "gluten-free"
)

type MenuItem struct {
	ID           string            `json:"id"`
	RestaurantID string            `json:"restaurant_id,omitempty"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Price        Money             `json:"price"`
	Category     string            `json:"category"`
	SubCategory  string            `json:"sub_category,omitempty"`
	Calories     int               `json:"calories,omitempty"`
	Nutrients    map[string]string `json:"nutrients,omitempty"` // display strings, e.g. "protein": "12g"
	Vegetarian   bool              `json:"vegetarian"`
	Vegan        bool              `json:"vegan"`
	GlutenFree   bool              `json:"gluten_free"`
	Allergens    []string          `json:"allergens,omitempty"`
	Ingredients  []string          `json:"ingredients,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Pairings     []string          `json:"pairings,omitempty"` // ids of other items
	Available    bool              `json:"available"`
	Image        string            `json:"image,omitempty"`
}

// DietaryLabels returns the labels for the dietary flags that are set.
func (mi MenuItem) DietaryLabels() []string {
	var labels []string
	if mi.Vegetarian {
		labels = append(labels, DietaryVegetarian)
	}
	if mi.Vegan {
		labels = append(labels, DietaryVegan)
	}
	if mi.GlutenFree {
		labels = append(labels, DietaryGlutenFree)
	}
	return labels
}

func (mi MenuItem) HasAllergen(allergen string) bool {
	for _, a := range mi.Allergens {
		if strings.EqualFold(a, allergen) {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts numeric ids and treats a missing "available" as true.
func (mi *MenuItem) UnmarshalJSON(data []byte) error {
	type plain MenuItem
	aux := struct {
		*plain
		ID        json.RawMessage `json:"id"`
		Available *bool           `json:"available"`
	}{plain: (*plain)(mi)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id := bytes.TrimSpace(aux.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
		mi.ID = ""
	case id[0] == '"':
		if err := json.Unmarshal(id, &mi.ID); err != nil {
			return err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("menu item id: %w", err)
		}
		mi.ID = n.String()
	}

	mi.Available = aux.Available == nil || *aux.Available
	return nil
}

// Clone returns a copy that shares no slices or maps with mi.
func (mi MenuItem) Clone() MenuItem {
	out := mi
	out.Allergens = append([]string(nil), mi.Allergens...)
	out.Ingredients = append([]string(nil), mi.Ingredients...)
	out.Tags = append([]string(nil), mi.Tags...)
	out.Pairings = append([]string(nil), mi.Pairings...)
	if mi.Nutrients != nil {
		out.Nutrients = make(map[string]string, len(mi.Nutrients))
		for k, v := range mi.Nutrients {
			out.Nutrients[k] = v
		}
	}
	return out
}

type Category struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Menu is the wire shape of the menu API: items keyed by category key.
type Menu struct {
	Categories []Category            `json:"categories,omitempty"`
	Items      map[string][]MenuItem `json:"menu"`
}
