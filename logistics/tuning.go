/*
tuning.go - Dispatcher tuning knobs

PURPOSE:
  All scheduling constants in one place, loadable from YAML so a
  scenario can reshape dispatcher behavior without recompiling. The
  file schema uses unit-suffixed integer fields (seconds); zero-valued
  fields fall back to defaults on load.
*/
package logistics

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// RequestTTL bounds how long a request may sit pending before it is
	// canceled unserved.
	RequestTTL time.Duration

	// RequestCooldown holds a requester's pending requests for a
	// resource out of assignment after one of its chains fails. Zero
	// disables the window.
	RequestCooldown time.Duration

	// ReserveTTL bounds how long an assigned request may hold its
	// reservation before rollback and requeue.
	ReserveTTL time.Duration

	// ChainsPerTick caps how many task chains the dispatcher emits per
	// tick.
	ChainsPerTick int

	// MaxConcurrentPerResource caps in-flight requests per resource kind.
	MaxConcurrentPerResource int

	// DefaultMinBatch applies when a request does not set MinBatch.
	DefaultMinBatch int

	// MinKeepPerWarehouse is stock the dispatcher will not reserve away
	// from any single storage.
	MinKeepPerWarehouse int

	// MaxReserveRetries caps reservation-expiry requeues before the
	// request fails outright. Zero means retry without bound.
	MaxReserveRetries int

	// GridCellSize is the facility registry's spatial bucket size.
	GridCellSize float64
}

func DefaultTuning() Tuning {
	return Tuning{
		RequestTTL:               30 * time.Second,
		RequestCooldown:          5 * time.Second,
		ReserveTTL:               20 * time.Second,
		ChainsPerTick:            3,
		MaxConcurrentPerResource: 2,
		DefaultMinBatch:          3,
		MinKeepPerWarehouse:      0,
		MaxReserveRetries:        0,
		GridCellSize:             8,
	}
}

// tuningFile is the on-disk schema. Durations are whole seconds.
type tuningFile struct {
	RequestTTLSecs           int     `yaml:"request_ttl_secs"`
	RequestCooldownSecs      int     `yaml:"request_cooldown_secs"`
	ReserveTTLSecs           int     `yaml:"reserve_ttl_secs"`
	ChainsPerTick            int     `yaml:"chains_per_tick"`
	MaxConcurrentPerResource int     `yaml:"max_concurrent_per_resource"`
	DefaultMinBatch          int     `yaml:"default_min_batch"`
	MinKeepPerWarehouse      int     `yaml:"min_keep_per_warehouse"`
	MaxReserveRetries        int     `yaml:"max_reserve_retries"`
	GridCellSize             float64 `yaml:"grid_cell_size"`
}

// LoadTuning reads YAML overrides on top of the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	var f tuningFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return t, fmt.Errorf("parse tuning %s: %w", path, err)
	}

	if f.RequestTTLSecs > 0 {
		t.RequestTTL = time.Duration(f.RequestTTLSecs) * time.Second
	}
	if f.RequestCooldownSecs > 0 {
		t.RequestCooldown = time.Duration(f.RequestCooldownSecs) * time.Second
	}
	if f.ReserveTTLSecs > 0 {
		t.ReserveTTL = time.Duration(f.ReserveTTLSecs) * time.Second
	}
	if f.ChainsPerTick > 0 {
		t.ChainsPerTick = f.ChainsPerTick
	}
	if f.MaxConcurrentPerResource > 0 {
		t.MaxConcurrentPerResource = f.MaxConcurrentPerResource
	}
	if f.DefaultMinBatch > 0 {
		t.DefaultMinBatch = f.DefaultMinBatch
	}
	if f.MinKeepPerWarehouse > 0 {
		t.MinKeepPerWarehouse = f.MinKeepPerWarehouse
	}
	if f.MaxReserveRetries > 0 {
		t.MaxReserveRetries = f.MaxReserveRetries
	}
	if f.GridCellSize > 0 {
		t.GridCellSize = f.GridCellSize
	}
	return t, nil
}

// fillDefaults repairs zero or negative fields on hand-built tunings.
func (t *Tuning) fillDefaults() {
	d := DefaultTuning()
	if t.RequestTTL <= 0 {
		t.RequestTTL = d.RequestTTL
	}
	if t.RequestCooldown < 0 {
		t.RequestCooldown = 0
	}
	if t.ReserveTTL <= 0 {
		t.ReserveTTL = d.ReserveTTL
	}
	if t.ChainsPerTick <= 0 {
		t.ChainsPerTick = d.ChainsPerTick
	}
	if t.MaxConcurrentPerResource <= 0 {
		t.MaxConcurrentPerResource = d.MaxConcurrentPerResource
	}
	if t.DefaultMinBatch <= 0 {
		t.DefaultMinBatch = d.DefaultMinBatch
	}
	if t.MinKeepPerWarehouse < 0 {
		t.MinKeepPerWarehouse = 0
	}
	if t.MaxReserveRetries < 0 {
		t.MaxReserveRetries = 0
	}
	if t.GridCellSize <= 0 {
		t.GridCellSize = d.GridCellSize
	}
}
