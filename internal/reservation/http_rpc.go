package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chrisdamba/foodsite/internal/models"
)

// HTTPRPC calls the booking endpoints under /rpc.
type HTTPRPC struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRPC(baseURL string, timeout time.Duration) *HTTPRPC {
	return &HTTPRPC{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTPRPC) TimeSlots(ctx context.Context, req TimeSlotsRequest) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	err := h.do(ctx, http.MethodPost, "/rpc/time_slots", req, &slots)
	return slots, err
}

func (h *HTTPRPC) Availability(ctx context.Context, req AvailabilityRequest) (models.TableAvailability, error) {
	var avail models.TableAvailability
	err := h.do(ctx, http.MethodPost, "/rpc/availability", req, &avail)
	return avail, err
}

func (h *HTTPRPC) Create(ctx context.Context, req models.ReservationRequest) (models.ReservationRecord, error) {
	var rec models.ReservationRecord
	err := h.do(ctx, http.MethodPost, "/rpc/reservations", req, &rec)
	return rec, err
}

func (h *HTTPRPC) Get(ctx context.Context, id string) (models.ReservationRecord, error) {
	var rec models.ReservationRecord
	err := h.do(ctx, http.MethodGet, "/rpc/reservations/"+url.PathEscape(id), nil, &rec)
	return rec, err
}

func (h *HTTPRPC) Cancel(ctx context.Context, id string) (models.ReservationRecord, error) {
	var rec models.ReservationRecord
	err := h.do(ctx, http.MethodPost, "/rpc/reservations/"+url.PathEscape(id)+"/cancel", nil, &rec)
	return rec, err
}

func (h *HTTPRPC) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return &models.NetworkError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.NetworkError{Op: path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func statusError(path string, resp *http.Response) error {
	var eb ErrorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, models.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", path, models.ErrSlotUnavailable)
	case http.StatusBadRequest:
		return models.NewValidationError(eb.Field, eb.Error)
	default:
		return &models.NetworkError{Op: path, Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, eb.Error)}
	}
}
