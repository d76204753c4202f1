package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chrisdamba/foodsite/internal/menu"
	"github.com/chrisdamba/foodsite/internal/models"
)

func (s *Server) getRestaurantByDomain(w http.ResponseWriter, r *http.Request) {
	domain := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("domain")))
	if domain == "" {
		domain = hostOnly(r.Host)
	}
	restaurant, err := s.store.Restaurants.GetByDomain(r.Context(), domain)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (s *Server) getRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := s.store.Restaurants.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

// getMenu returns the menu in its wire shape, narrowed to one category when
// ?category= is set.
func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	store, err := s.menuFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m := store.Menu()
	if category := r.URL.Query().Get("category"); category != "" {
		m = models.Menu{Items: map[string][]models.MenuItem{category: store.ByCategory(category)}}
		for _, c := range store.Categories() {
			if c.Key == category {
				m.Categories = []models.Category{c}
			}
		}
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) getPairings(w http.ResponseWriter, r *http.Request) {
	store, err := s.menuFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := store.Pairings(chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pairings": nonNilItems(items)})
}

func (s *Server) menuFor(r *http.Request) (*menu.Store, error) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Restaurants.GetByID(r.Context(), id); err != nil {
		return nil, err
	}
	ptrs, err := s.store.MenuItems.GetByRestaurantID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	items := make([]models.MenuItem, len(ptrs))
	for i, it := range ptrs {
		items[i] = *it
	}
	return menu.FromItems(items)
}

func (s *Server) searchMenu(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := s.store.Restaurants.GetByID(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.search.Search(r.Context(), id, r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type contentResponse struct {
	Title   string             `json:"title"`
	Preview bool               `json:"preview"`
	Content models.SiteContent `json:"content"`
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		http.NotFound(w, r)
		return
	}
	preview := inPreview(r)
	writeJSON(w, http.StatusOK, contentResponse{
		Title:   s.content.PageTitle(r.URL.Query().Get("page"), preview),
		Preview: preview,
		Content: s.content.Content(),
	})
}

func (s *Server) getContentSection(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		http.NotFound(w, r)
		return
	}
	section, err := s.content.Section(chi.URLParam(r, "section"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

// setPreview turns preview mode on or off for this browser session.
func (s *Server) setPreview(w http.ResponseWriter, r *http.Request) {
	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		s.writeError(w, r, models.NewValidationError("enabled", "must be true or false"))
		return
	}
	cookie := &http.Cookie{Name: previewCookie, Value: "1", Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	if !enabled {
		cookie.Value = ""
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, map[string]bool{"preview": enabled})
}

func inPreview(r *http.Request) bool {
	c, err := r.Cookie(previewCookie)
	return err == nil && c.Value == "1"
}

func hostOnly(host string) string {
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.ToLower(host)
}

func nonNilItems(items []models.MenuItem) []models.MenuItem {
	if items == nil {
		return []models.MenuItem{}
	}
	return items
}
