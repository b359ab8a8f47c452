package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/logistics-engine/api"
	"github.com/warp/logistics-engine/clock"
	"github.com/warp/logistics-engine/economy"
	"github.com/warp/logistics-engine/journal"
	"github.com/warp/logistics-engine/logistics"
	"github.com/warp/logistics-engine/reserve"
	"github.com/warp/logistics-engine/tasks"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestServer spins up a tiny economy, lets it run for a while and
// serves the monitor over httptest.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	clk := clock.New(10)
	registry := economy.NewRegistry(8)
	res := reserve.NewLedger()
	manager := tasks.NewManager()
	jnl := journal.NewMemory()
	dispatcher := logistics.NewDispatcher(registry, res, manager, clk, jnl, logistics.DefaultTuning())

	wh := economy.NewWarehouse("wh", economy.Point{X: 2}, 200)
	wh.Inventory().Deposit(economy.Wood, 20)
	require.NoError(t, registry.Register(wh.Facility()))

	smithy := economy.NewProductionFacility("smithy", economy.Point{}, economy.Recipe{
		Inputs: []economy.Stack{{Kind: economy.Wood, Amount: 1}},
	})
	require.NoError(t, registry.Register(smithy.Facility()))

	carrier := economy.NewCarrier("c1", economy.Point{}, 2.0)
	clk.Subscribe(func() { carrier.Tick(clk.Delta()) })
	manager.AddWorker(&tasks.Context{Registry: registry, Carrier: carrier, Mover: carrier, Clock: clk})
	clk.Subscribe(dispatcher.OnTick)
	clk.Subscribe(manager.OnTick)

	require.NoError(t, dispatcher.Enqueue(logistics.NewPullRequest(smithy.Facility(), economy.Wood, 5)))
	clk.Advance(100)

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(dispatcher, manager, jnl)))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// ENDPOINTS
// =============================================================================

func TestMonitor_Status(t *testing.T) {
	srv := newTestServer(t)

	var status api.StatusDTO
	code := getJSON(t, srv, "/api/status", &status)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint64(100), status.Tick)
	assert.InDelta(t, 10.0, status.SimSeconds, 0.01)
	assert.Equal(t, 1, status.Facilities)
}

func TestMonitor_Stock_ReportsTotals(t *testing.T) {
	srv := newTestServer(t)

	var report api.StockReportDTO
	code := getJSON(t, srv, "/api/stock", &report)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, report.Facilities, 1)
	assert.Equal(t, "wh", report.Facilities[0].Facility)
	// 5 wood were hauled away to the smithy.
	assert.Equal(t, 15, report.Totals["wood"])
}

func TestMonitor_Requests(t *testing.T) {
	srv := newTestServer(t)

	var reqs api.RequestsDTO
	code := getJSON(t, srv, "/api/requests", &reqs)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, reqs.Pending)
	assert.Empty(t, reqs.InFlight)
}

func TestMonitor_Journal_TailAndLimit(t *testing.T) {
	srv := newTestServer(t)

	var events []api.EventDTO
	code := getJSON(t, srv, "/api/journal", &events)
	assert.Equal(t, http.StatusOK, code)
	// enqueued, assigned, fulfilled
	require.Len(t, events, 3)
	assert.Equal(t, "fulfilled", events[0].Type)

	code = getJSON(t, srv, "/api/journal?limit=1", &events)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, events, 1)

	code = getJSON(t, srv, "/api/journal?limit=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMonitor_Stats(t *testing.T) {
	srv := newTestServer(t)

	var stats api.StatsDTO
	code := getJSON(t, srv, "/api/stats", &stats)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, stats.Enqueued)
	assert.Equal(t, 1, stats.Fulfilled)
	assert.Equal(t, "1", stats.FillRate)
}

func TestMonitor_Healthz(t *testing.T) {
	srv := newTestServer(t)
	code := getJSON(t, srv, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
}
