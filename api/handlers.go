/*
handlers.go - HTTP handlers for the logistics monitor

PURPOSE:
  Read-only window into a running simulation. Handlers never touch live
  engine state: request and stock views come from the snapshot the
  dispatcher publishes once per tick, the journal has its own locking.

ENDPOINTS:
  GET /api/status          One-look overview (tick, queue depths)
  GET /api/requests        Pending and in-flight requests
  GET /api/stock           Per-facility stock plus city totals
  GET /api/journal?limit=  Most recent journal events, newest first
  GET /api/stats           Fill rate, latency, outcome counters

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: bad query parameters
  - 500: journal read failures

SEE ALSO:
  - dto.go: response shapes
  - server.go: router setup and middleware
  - logistics/snapshot.go: where the data comes from
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/warp/logistics-engine/journal"
	"github.com/warp/logistics-engine/logistics"
	"github.com/warp/logistics-engine/tasks"
)

const defaultJournalLimit = 50

// Handler holds the monitor's read-side dependencies.
type Handler struct {
	Dispatcher *logistics.Dispatcher
	Tasks      *tasks.Manager
	Journal    journal.Journal
}

func NewHandler(d *logistics.Dispatcher, tm *tasks.Manager, jnl journal.Journal) *Handler {
	return &Handler{Dispatcher: d, Tasks: tm, Journal: jnl}
}

// GetStatus returns the one-look overview.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.Dispatcher.Snapshot()
	writeJSON(w, http.StatusOK, StatusDTO{
		Tick:        snap.Tick,
		SimSeconds:  snap.SimTime.Seconds(),
		Pending:     len(snap.Pending),
		InFlight:    len(snap.InFlight),
		ActiveTasks: h.Tasks.ActiveCount(),
		QueuedTasks: h.Tasks.QueueLen(),
		Facilities:  len(snap.Facilities),
	})
}

// GetRequests returns pending and in-flight requests.
func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	snap := h.Dispatcher.Snapshot()
	out := RequestsDTO{
		Pending:  make([]RequestDTO, 0, len(snap.Pending)),
		InFlight: make([]RequestDTO, 0, len(snap.InFlight)),
	}
	for _, v := range snap.Pending {
		out.Pending = append(out.Pending, requestDTO(v))
	}
	for _, v := range snap.InFlight {
		out.InFlight = append(out.InFlight, requestDTO(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStock returns per-facility stock and city-wide totals.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	snap := h.Dispatcher.Snapshot()
	report := StockReportDTO{
		Facilities: make([]StockDTO, 0, len(snap.Facilities)),
		Totals:     make(map[string]int),
	}
	for _, f := range snap.Facilities {
		report.Facilities = append(report.Facilities, StockDTO{
			Facility: f.ID, X: f.X, Y: f.Y, Stock: f.Stock,
		})
		for kind, n := range f.Stock {
			report.Totals[kind] += n
		}
	}
	writeJSON(w, http.StatusOK, report)
}

// GetJournal returns the most recent journal events, newest first.
func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	events, err := h.Journal.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read journal", err)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventDTO{
			ID:         e.ID,
			RequestID:  e.RequestID,
			Type:       string(e.Type),
			Resource:   e.Kind.String(),
			Quantity:   e.Quantity,
			Facility:   e.Facility,
			SimSeconds: e.SimTime.Seconds(),
			RecordedAt: e.RecordedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStats returns the dispatcher's health counters.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	s := h.Dispatcher.Snapshot().Stats
	writeJSON(w, http.StatusOK, StatsDTO{
		Enqueued:       s.Enqueued,
		Fulfilled:      s.Fulfilled,
		Failed:         s.Failed,
		Canceled:       s.Canceled,
		Expired:        s.Expired,
		Requeued:       s.Requeued,
		FillRate:       s.FillRate.String(),
		AvgLatencySecs: strconv.FormatFloat(s.AvgLatency.Seconds(), 'f', 2, 64),
	})
}

func requestDTO(v logistics.RequestView) RequestDTO {
	return RequestDTO{
		ID:        v.ID,
		Kind:      v.Kind,
		Resource:  v.Resource,
		Quantity:  v.Quantity,
		Priority:  v.Priority,
		Retries:   v.Retries,
		State:     v.State,
		Requester: v.Requester,
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
