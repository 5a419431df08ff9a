package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/apexmarkets/fx-terminal/internal/api"
	"github.com/apexmarkets/fx-terminal/internal/config"
	"github.com/apexmarkets/fx-terminal/internal/engine"
	"github.com/apexmarkets/fx-terminal/internal/instruments"
	"github.com/apexmarkets/fx-terminal/internal/logger"
	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *instruments.Set) {
	t.Helper()

	set := instruments.NewSet(model.DefaultInstruments())
	apiClient := api.NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second}, logger.NewNop())
	t.Cleanup(func() { _ = apiClient.Close() })

	eng := engine.NewEngine(config.EngineConfig{}, apiClient, set, nil, logger.NewNop())
	srv := NewHTTPServer(context.Background(), "0", eng, set, logger.NewNop())

	ts := httptest.NewServer(srv.s.Handler)
	t.Cleanup(ts.Close)
	return ts, set
}

func TestInstrumentsEndpointFormatsPrices(t *testing.T) {
	t.Parallel()

	ts, set := newTestServer(t)
	set.Apply(map[string]model.Quote{"EURUSD": {Bid: 1.1050, Ask: 1.1052}})

	resp, err := http.Get(ts.URL + "/instruments?q=eur")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var views []struct {
		Symbol        string `json:"symbol"`
		BidDisplay    string `json:"bidDisplay"`
		AskDisplay    string `json:"askDisplay"`
		SpreadDisplay string `json:"spreadDisplay"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "EURUSD", views[0].Symbol)
	assert.Equal(t, "1.10500", views[0].BidDisplay)
	assert.Equal(t, "1.10520", views[0].AskDisplay)
	assert.Equal(t, "2.0", views[0].SpreadDisplay)
}

func TestInstrumentsEndpointUnquotedPlaceholders(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/instruments?q=gbp")
	require.NoError(t, err)
	defer resp.Body.Close()

	var views []struct {
		BidDisplay    string `json:"bidDisplay"`
		SpreadDisplay string `json:"spreadDisplay"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "...", views[0].BidDisplay)
	assert.Equal(t, "-", views[0].SpreadDisplay)
}

func TestStarEndpoint(t *testing.T) {
	t.Parallel()

	ts, set := newTestServer(t)

	resp, err := http.Post(ts.URL+"/instruments/USDJPY/star?starred=true", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	jpy, ok := set.Get("USDJPY")
	require.True(t, ok)
	assert.True(t, jpy.Starred)

	resp, err = http.Post(ts.URL+"/instruments/EURUSD/star?starred=false", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	eur, _ := set.Get("EURUSD")
	assert.False(t, eur.Starred)

	resp, err = http.Post(ts.URL+"/instruments/NOPE/star", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/instruments/EURUSD/star?starred=maybe", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshEndpointRequiresAccount(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/refresh", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSnapshotEndpoint(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))

	var snap struct {
		Valuation engine.Valuation `json:"valuation"`
		Positions int              `json:"openPositions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.False(t, snap.Valuation.Live)
	assert.Zero(t, snap.Positions)
}
