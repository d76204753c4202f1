package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chrisdamba/foodsite/internal/cart"
	"github.com/chrisdamba/foodsite/internal/models"
)

type addItemRequest struct {
	RestaurantID string `json:"restaurant_id"`
	ItemID       string `json:"item_id"`
	Quantity     int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type drawerRequest struct {
	Visible *bool `json:"visible"`
}

func (s *Server) createCart(w http.ResponseWriter, r *http.Request) {
	c := s.carts.Create()
	writeJSON(w, http.StatusCreated, c.State())
}

func (s *Server) cartFor(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	c, err := s.carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return c, true
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	if c, ok := s.cartFor(w, r); ok {
		writeJSON(w, http.StatusOK, c.State())
	}
}

// clearCart empties the cart and hides the drawer. With ?discard=true the
// cart id is released as well.
func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.cartFor(w, r)
	if !ok {
		return
	}
	c.Clear()
	if r.URL.Query().Get("discard") == "true" {
		s.carts.Delete(c.ID())
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, c.State())
}

func (s *Server) setDrawer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.cartFor(w, r)
	if !ok {
		return
	}
	var req drawerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	switch {
	case req.Visible == nil:
		c.Toggle()
	case *req.Visible:
		c.Open()
	default:
		c.Hide()
	}
	writeJSON(w, http.StatusOK, c.State())
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := s.cartFor(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := s.lookupItem(r, req.RestaurantID, req.ItemID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !item.Available {
		s.writeError(w, r, models.NewValidationError("item_id", "is not available"))
		return
	}
	if err := c.AddItem(item, req.Quantity); err != nil {
		s.writeError(w, r, models.NewValidationError("quantity", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, c.State())
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := s.cartFor(w, r)
	if !ok {
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c.UpdateQuantity(chi.URLParam(r, "itemID"), req.Quantity)
	writeJSON(w, http.StatusOK, c.State())
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := s.cartFor(w, r)
	if !ok {
		return
	}
	c.RemoveItem(chi.URLParam(r, "itemID"))
	writeJSON(w, http.StatusOK, c.State())
}

func (s *Server) lookupItem(r *http.Request, restaurantID, itemID string) (models.MenuItem, error) {
	if restaurantID == "" {
		return models.MenuItem{}, models.NewValidationError("restaurant_id", "is required")
	}
	items, err := s.store.MenuItems.GetByRestaurantID(r.Context(), restaurantID)
	if err != nil {
		return models.MenuItem{}, err
	}
	for _, it := range items {
		if it.ID == itemID {
			return *it, nil
		}
	}
	return models.MenuItem{}, models.ErrNotFound
}
