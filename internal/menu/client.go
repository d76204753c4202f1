package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chrisdamba/foodsite/internal/inflight"
	"github.com/chrisdamba/foodsite/internal/models"
)

var ErrSuperseded = errors.New("category request superseded")

// Client talks to the menu and restaurant API.
type Client struct {
	baseURL string
	http    *http.Client

	categoryCalls inflight.Tracker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchMenu(ctx context.Context, restaurantID string) (*Store, error) {
	var m models.Menu
	if err := c.get(ctx, "/api/restaurants/"+url.PathEscape(restaurantID)+"/menu", nil, &m); err != nil {
		return nil, err
	}
	return NewStore(m)
}

func (c *Client) LookupRestaurant(ctx context.Context, domain string) (models.Restaurant, error) {
	var r models.Restaurant
	err := c.get(ctx, "/api/restaurants", url.Values{"domain": {domain}}, &r)
	return r, err
}

// FetchCategory is latest-wins: a newer call cancels an older one still in
// flight, and the older one returns ErrSuperseded.
func (c *Client) FetchCategory(ctx context.Context, restaurantID, category string) ([]models.MenuItem, error) {
	callCtx, seq, done := c.categoryCalls.Begin(ctx)
	defer done()

	var m models.Menu
	err := c.get(callCtx, "/api/restaurants/"+url.PathEscape(restaurantID)+"/menu", url.Values{"category": {category}}, &m)
	if !c.categoryCalls.IsCurrent(seq) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return m.Items[category], nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &models.NetworkError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, models.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return &models.NetworkError{Op: path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
