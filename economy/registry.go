/*
registry.go - Queryable collection of active facilities

PURPOSE:
  The registry is what the dispatcher searches for supply and space
  candidates. Entries appear when a facility activates and disappear when
  it is destroyed; a destroyed facility immediately stops being a routing
  candidate.

SPATIAL INDEX:
  Facilities are kept in grid buckets keyed by position. Nearest-candidate
  queries expand outward ring by ring from the query point's cell and stop
  once no unexplored cell can beat the best squared distance found so far.
  Registration and destruction update the buckets incrementally; nothing
  is rebuilt per tick.

CONCURRENCY:
  Mutated and queried on the tick goroutine only, like every other piece
  of simulation state. The HTTP monitor reads published snapshots.
*/
package economy

import "math"

// =============================================================================
// GRID-BUCKETED REGISTRY
// =============================================================================

type cellKey struct{ cx, cy int }

type Registry struct {
	cellSize float64
	cells    map[cellKey][]*Facility
	byID     map[FacilityID]*Facility
}

// NewRegistry creates a registry with the given grid cell size. A cell
// size around the typical facility spacing keeps ring searches short.
func NewRegistry(cellSize float64) *Registry {
	if cellSize <= 0 {
		cellSize = 8
	}
	return &Registry{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*Facility),
		byID:     make(map[FacilityID]*Facility),
	}
}

func (r *Registry) cellOf(p Point) cellKey {
	return cellKey{
		cx: int(math.Floor(p.X / r.cellSize)),
		cy: int(math.Floor(p.Y / r.cellSize)),
	}
}

// Register adds an active facility to the routing candidates.
func (r *Registry) Register(f *Facility) error {
	if _, ok := r.byID[f.ID]; ok {
		return ErrFacilityExists
	}
	r.byID[f.ID] = f
	k := r.cellOf(f.Pos)
	r.cells[k] = append(r.cells[k], f)
	return nil
}

// Remove drops a destroyed facility from the routing candidates.
func (r *Registry) Remove(id FacilityID) error {
	f, ok := r.byID[id]
	if !ok {
		return ErrFacilityNotFound
	}
	delete(r.byID, id)
	k := r.cellOf(f.Pos)
	bucket := r.cells[k]
	for i, cand := range bucket {
		if cand == f {
			r.cells[k] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(r.cells[k]) == 0 {
		delete(r.cells, k)
	}
	return nil
}

// Get returns the facility with the given ID, or nil.
func (r *Registry) Get(id FacilityID) *Facility { return r.byID[id] }

// Len returns the number of registered facilities.
func (r *Registry) Len() int { return len(r.byID) }

// Each visits every registered facility. Iteration order is unspecified.
func (r *Registry) Each(fn func(*Facility)) {
	for _, f := range r.byID {
		fn(f)
	}
}

// Storages returns every facility exposing the Storage role.
func (r *Registry) Storages() []*Facility {
	var out []*Facility
	for _, f := range r.byID {
		if f.IsStorage() {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// NEAREST-CANDIDATE SEARCH
// =============================================================================

// NearestStorage returns the storage facility nearest to from (squared
// straight-line distance) for which accept returns true, or nil if no
// candidate qualifies.
func (r *Registry) NearestStorage(from Point, accept func(*Facility) bool) *Facility {
	var best *Facility
	bestD2 := math.MaxFloat64

	consider := func(f *Facility) {
		if !f.IsStorage() {
			return
		}
		if accept != nil && !accept(f) {
			return
		}
		d2 := f.Pos.DistSq(from)
		if d2 < bestD2 {
			bestD2 = d2
			best = f
		}
	}

	// Small populations: a flat scan beats ring bookkeeping.
	if len(r.byID) <= 16 {
		for _, f := range r.byID {
			consider(f)
		}
		return best
	}

	center := r.cellOf(from)
	maxRing := r.maxRingFrom(center)
	for ring := 0; ring <= maxRing; ring++ {
		// Any facility in ring N is at least (N-1) cells away, so once
		// that bound exceeds the best hit nothing further can win.
		if best != nil {
			minDist := float64(ring-1) * r.cellSize
			if minDist > 0 && minDist*minDist > bestD2 {
				break
			}
		}
		r.eachInRing(center, ring, consider)
	}
	return best
}

// maxRingFrom returns the Chebyshev distance from center to the farthest
// occupied cell.
func (r *Registry) maxRingFrom(center cellKey) int {
	max := 0
	for k := range r.cells {
		dx := k.cx - center.cx
		if dx < 0 {
			dx = -dx
		}
		dy := k.cy - center.cy
		if dy < 0 {
			dy = -dy
		}
		d := dx
		if dy > d {
			d = dy
		}
		if d > max {
			max = d
		}
	}
	return max
}

// eachInRing visits facilities in the cells at Chebyshev distance ring
// from center.
func (r *Registry) eachInRing(center cellKey, ring int, fn func(*Facility)) {
	if ring == 0 {
		for _, f := range r.cells[center] {
			fn(f)
		}
		return
	}
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			if dx != -ring && dx != ring && dy != -ring && dy != ring {
				continue
			}
			for _, f := range r.cells[cellKey{center.cx + dx, center.cy + dy}] {
				fn(f)
			}
		}
	}
}
