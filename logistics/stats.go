/*
stats.go - Dispatcher health metrics

PURPOSE:
  Running counters over request outcomes plus derived ratios computed
  with decimal arithmetic so fill rates survive long runs without float
  drift. Safe to read from the HTTP monitor while the tick thread
  writes.
*/
package logistics

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Stats struct {
	mu sync.Mutex

	Enqueued  int
	Fulfilled int
	Failed    int
	Canceled  int
	Expired   int
	Requeued  int

	totalLatency time.Duration // enqueue to fulfillment, fulfilled only
}

func (s *Stats) recordEnqueued() {
	s.mu.Lock()
	s.Enqueued++
	s.mu.Unlock()
}

func (s *Stats) recordFulfilled(latency time.Duration) {
	s.mu.Lock()
	s.Fulfilled++
	s.totalLatency += latency
	s.mu.Unlock()
}

func (s *Stats) recordFailed() {
	s.mu.Lock()
	s.Failed++
	s.mu.Unlock()
}

func (s *Stats) recordCanceled() {
	s.mu.Lock()
	s.Canceled++
	s.mu.Unlock()
}

func (s *Stats) recordExpired() {
	s.mu.Lock()
	s.Expired++
	s.mu.Unlock()
}

func (s *Stats) recordRequeued() {
	s.mu.Lock()
	s.Requeued++
	s.mu.Unlock()
}

// FillRate is fulfilled / resolved as a decimal in [0, 1]. Requests
// still in flight do not count against it.
func (s *Stats) FillRate() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	resolved := s.Fulfilled + s.Failed + s.Canceled
	if resolved == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.Fulfilled)).
		Div(decimal.NewFromInt(int64(resolved))).
		Round(4)
}

// AvgLatency is mean simulated time from enqueue to fulfillment.
func (s *Stats) AvgLatency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fulfilled == 0 {
		return 0
	}
	return s.totalLatency / time.Duration(s.Fulfilled)
}

// View returns a consistent copy of the counters.
func (s *Stats) View() StatsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := StatsView{
		Enqueued:  s.Enqueued,
		Fulfilled: s.Fulfilled,
		Failed:    s.Failed,
		Canceled:  s.Canceled,
		Expired:   s.Expired,
		Requeued:  s.Requeued,
	}
	resolved := s.Fulfilled + s.Failed + s.Canceled
	if resolved > 0 {
		v.FillRate = decimal.NewFromInt(int64(s.Fulfilled)).
			Div(decimal.NewFromInt(int64(resolved))).
			Round(4)
	}
	if s.Fulfilled > 0 {
		v.AvgLatency = s.totalLatency / time.Duration(s.Fulfilled)
	}
	return v
}

type StatsView struct {
	Enqueued   int
	Fulfilled  int
	Failed     int
	Canceled   int
	Expired    int
	Requeued   int
	FillRate   decimal.Decimal
	AvgLatency time.Duration
}
