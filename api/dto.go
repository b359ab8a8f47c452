/*
dto.go - Data Transfer Objects for the monitor API

PURPOSE:
  JSON structures returned by the monitor. They decouple the engine's
  internal snapshot/journal types from the wire contract, so internal
  fields can move without breaking clients.

NAMING CONVENTION:
  *DTO: response types returned to clients. The monitor is read-only,
  so there are no request body types.

SEE ALSO:
  - handlers.go: builds these from the dispatcher snapshot
*/
package api

// StatusDTO is the one-look overview of the simulation.
type StatusDTO struct {
	Tick        uint64  `json:"tick"`
	SimSeconds  float64 `json:"sim_seconds"`
	Pending     int     `json:"pending_requests"`
	InFlight    int     `json:"in_flight_requests"`
	ActiveTasks int     `json:"active_task_chains"`
	QueuedTasks int     `json:"queued_task_chains"`
	Facilities  int     `json:"facilities"`
}

// RequestDTO is one logistics request, pending or in flight.
type RequestDTO struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Resource  string `json:"resource"`
	Quantity  int    `json:"quantity"`
	Priority  int    `json:"priority"`
	Retries   int    `json:"retries,omitempty"`
	State     string `json:"state"`
	Requester string `json:"requester"`
}

// RequestsDTO groups requests by where they sit in the pipeline.
type RequestsDTO struct {
	Pending  []RequestDTO `json:"pending"`
	InFlight []RequestDTO `json:"in_flight"`
}

// StockDTO is one storage facility's non-empty stock.
type StockDTO struct {
	Facility string         `json:"facility"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Stock    map[string]int `json:"stock"`
}

// StockReportDTO adds city-wide totals per resource kind.
type StockReportDTO struct {
	Facilities []StockDTO     `json:"facilities"`
	Totals     map[string]int `json:"totals"`
}

// EventDTO is one journal entry.
type EventDTO struct {
	ID         string  `json:"id"`
	RequestID  string  `json:"request_id"`
	Type       string  `json:"type"`
	Resource   string  `json:"resource"`
	Quantity   int     `json:"quantity"`
	Facility   string  `json:"facility,omitempty"`
	SimSeconds float64 `json:"sim_seconds"`
	RecordedAt string  `json:"recorded_at"`
}

// StatsDTO is the dispatcher's running health counters.
type StatsDTO struct {
	Enqueued       int    `json:"enqueued"`
	Fulfilled      int    `json:"fulfilled"`
	Failed         int    `json:"failed"`
	Canceled       int    `json:"canceled"`
	Expired        int    `json:"expired"`
	Requeued       int    `json:"requeued"`
	FillRate       string `json:"fill_rate"`
	AvgLatencySecs string `json:"avg_latency_seconds"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
