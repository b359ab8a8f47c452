package logistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStats_FillRateAndLatency(t *testing.T) {
	s := &Stats{}
	s.recordEnqueued()
	s.recordEnqueued()
	s.recordEnqueued()
	s.recordEnqueued()
	s.recordFulfilled(2 * time.Second)
	s.recordFulfilled(4 * time.Second)
	s.recordFailed()
	s.recordCanceled()

	assert.Equal(t, "0.5", s.FillRate().String())
	assert.Equal(t, 3*time.Second, s.AvgLatency())

	v := s.View()
	assert.Equal(t, 4, v.Enqueued)
	assert.Equal(t, 2, v.Fulfilled)
	assert.Equal(t, "0.5", v.FillRate.String())
	assert.Equal(t, 3*time.Second, v.AvgLatency)
}

func TestStats_EmptySafeDefaults(t *testing.T) {
	s := &Stats{}
	assert.True(t, s.FillRate().IsZero())
	assert.Equal(t, time.Duration(0), s.AvgLatency())
}
