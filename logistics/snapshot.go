/*
snapshot.go - Monitor read model

PURPOSE:
  The HTTP monitor must never touch live engine state, so the dispatcher
  publishes a plain-data snapshot at the end of every tick. Readers copy
  it under a read lock; the tick thread replaces it wholesale.
*/
package logistics

import (
	"time"

	"github.com/warp/logistics-engine/economy"
)

type RequestView struct {
	ID        string
	Kind      string
	Resource  string
	Quantity  int
	Priority  int
	Retries   int
	State     string
	Requester string
}

type FacilityStock struct {
	ID    string
	X, Y  float64
	Stock map[string]int
}

type Snapshot struct {
	Tick       uint64
	SimTime    time.Duration
	Pending    []RequestView
	InFlight   []RequestView
	Facilities []FacilityStock
	Stats      StatsView
}

// Snapshot returns the last published snapshot. Safe off the tick thread.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot
}

func (d *Dispatcher) publishSnapshot(now time.Duration) {
	snap := Snapshot{
		Tick:    d.clock.TickCount(),
		SimTime: now,
		Stats:   d.stats.View(),
	}
	d.queue.Each(func(r *Request) {
		snap.Pending = append(snap.Pending, viewOf(r))
	})
	for _, r := range d.inFlight {
		snap.InFlight = append(snap.InFlight, viewOf(r))
	}
	d.registry.Each(func(f *economy.Facility) {
		if f.Storage == nil {
			return
		}
		fs := FacilityStock{ID: string(f.ID), X: f.Pos.X, Y: f.Pos.Y, Stock: make(map[string]int)}
		for _, k := range economy.Kinds() {
			if n := f.Storage.Get(k); n > 0 {
				fs.Stock[k.String()] = n
			}
		}
		snap.Facilities = append(snap.Facilities, fs)
	})

	d.mu.Lock()
	d.snapshot = snap
	d.mu.Unlock()
}

func viewOf(r *Request) RequestView {
	return RequestView{
		ID:        r.ID,
		Kind:      r.Kind.String(),
		Resource:  r.Resource.String(),
		Quantity:  r.Quantity,
		Priority:  r.Priority,
		Retries:   r.Retries,
		State:     r.State.String(),
		Requester: string(r.RequesterKey()),
	}
}
