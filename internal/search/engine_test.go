package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodsite/internal/models"
)

type fakeRemote struct {
	pingErr   error
	searchErr error
	calls     int
}

func (f *fakeRemote) Ping(context.Context) error { return f.pingErr }

func (f *fakeRemote) Search(_ context.Context, q string) (Results, error) {
	f.calls++
	if f.searchErr != nil {
		return Results{}, f.searchErr
	}
	return Results{Query: q, Items: []Result{{Item: models.MenuItem{ID: "remote"}, Score: 99}}}, nil
}

func TestEngineUsesRemoteWhenHealthy(t *testing.T) {
	remote := &fakeRemote{}
	e := NewEngine(built(t, fixtureMenu()), remote, zerolog.Nop())
	e.Init(context.Background())

	res, err := e.Search(context.Background(), "chicken")
	require.NoError(t, err)
	assert.False(t, e.UsingFallback())
	assert.Equal(t, "remote", res.Items[0].Item.ID)
}

func TestEngineFallsBackWhenPingFails(t *testing.T) {
	remote := &fakeRemote{pingErr: errors.New("script failed to load")}
	e := NewEngine(built(t, fixtureMenu()), remote, zerolog.Nop())
	e.Init(context.Background())

	res, err := e.Search(context.Background(), "chicken")
	require.NoError(t, err)
	assert.True(t, e.UsingFallback())
	assert.Equal(t, 0, remote.calls)
	assert.Equal(t, "1", res.Items[0].Item.ID)
}

func TestEngineFallsBackWhenRemoteSearchFails(t *testing.T) {
	remote := &fakeRemote{searchErr: errors.New("timeout")}
	e := NewEngine(built(t, fixtureMenu()), remote, zerolog.Nop())
	e.Init(context.Background())

	res, err := e.Search(context.Background(), "wings")
	require.NoError(t, err)
	assert.Equal(t, "6", res.Items[0].Item.ID)

	_, err = e.Search(context.Background(), "wings")
	require.NoError(t, err)
	assert.Equal(t, 1, remote.calls)
}

func TestEngineWithoutRemote(t *testing.T) {
	e := NewEngine(NewIndex(DefaultWeights()), nil, zerolog.Nop())
	e.Init(context.Background())
	assert.True(t, e.UsingFallback())

	_, err := e.Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrIndexNotReady)
}

func TestHTTPRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pad thai", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(Results{
			Query: "pad thai",
			Items: []Result{{Item: models.MenuItem{ID: "7", Name: "Pad Thai"}, Score: 10}},
		})
	}))
	defer srv.Close()

	res, err := NewHTTPRemote(srv.URL, time.Second).Search(context.Background(), "pad thai")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Pad Thai", res.Items[0].Item.Name)
}

func TestHTTPRemoteStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPRemote(srv.URL, time.Second).Ping(context.Background())
	assert.True(t, models.IsNetwork(err))
}
