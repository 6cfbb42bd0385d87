// Package drain measures how fast the battery charges or discharges.
package drain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

// Sampler is satisfied by *collector.Collector.
type Sampler interface {
	Collect(ctx context.Context) (*collector.BatterySample, error)
}

// Rate is the change in charge over a measurement window. Positive values
// mean charging.
type Rate struct {
	MAhPerHour float64       `json:"mah_per_hour"`
	PctPerHour float64       `json:"pct_per_hour"`
	Samples    int           `json:"samples"`
	Elapsed    time.Duration `json:"elapsed"`

	First collector.BatterySample `json:"first"`
	Last  collector.BatterySample `json:"last"`
}

type reading struct {
	at     time.Time
	sample *collector.BatterySample
}

// MeasureRate polls bs every poll for window and computes the rate from the
// first and last sample. Samples that fail to collect are skipped.
func MeasureRate(ctx context.Context, bs Sampler, window, poll time.Duration) (Rate, error) {
	if window <= 0 {
		return Rate{}, fmt.Errorf("window must be positive, got %v", window)
	}
	if poll <= 0 || poll > window {
		return Rate{}, fmt.Errorf("poll interval must be in (0, %v], got %v", window, poll)
	}

	var readings []reading
	var lastErr error
	take := func() {
		s, err := bs.Collect(ctx)
		if err != nil {
			lastErr = err
			return
		}
		readings = append(readings, reading{at: time.Now(), sample: s})
	}

	take()
	deadline := time.NewTimer(window)
	defer deadline.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			return Rate{}, ctx.Err()
		case <-ticker.C:
			take()
		case <-deadline.C:
			take()
			break loop
		}
	}

	if len(readings) < 2 {
		if lastErr != nil {
			return Rate{}, fmt.Errorf("need at least 2 samples, got %d: %w", len(readings), lastErr)
		}
		return Rate{}, fmt.Errorf("need at least 2 samples, got %d", len(readings))
	}
	return rateBetween(readings[0], readings[len(readings)-1], len(readings)), nil
}

func rateBetween(first, last reading, n int) Rate {
	elapsed := last.at.Sub(first.at)
	r := Rate{
		Samples: n,
		Elapsed: elapsed,
		First:   *first.sample,
		Last:    *last.sample,
	}
	hours := elapsed.Hours()
	if hours <= 0 {
		return r
	}
	r.MAhPerHour = float64(last.sample.CurrentCapacity-first.sample.CurrentCapacity) / hours
	r.PctPerHour = (chargeFraction(last.sample) - chargeFraction(first.sample)) * 100 / hours
	return r
}

func chargeFraction(s *collector.BatterySample) float64 {
	if s.MaxCapacity <= 0 {
		return 0
	}
	return float64(s.CurrentCapacity) / float64(s.MaxCapacity)
}

// Remaining estimates the time until the battery is empty (discharging) or
// full (charging) at this rate. ok is false when the rate is flat.
func (r Rate) Remaining() (d time.Duration, ok bool) {
	var mah float64
	switch {
	case r.MAhPerHour < 0:
		mah = float64(r.Last.CurrentCapacity)
	case r.MAhPerHour > 0:
		mah = float64(r.Last.MaxCapacity - r.Last.CurrentCapacity)
	default:
		return 0, false
	}
	hours := mah / math.Abs(r.MAhPerHour)
	return time.Duration(hours * float64(time.Hour)), true
}

// Charging reports whether the measured rate is positive.
func (r Rate) Charging() bool {
	return r.MAhPerHour > 0
}
