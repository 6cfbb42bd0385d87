package collector

import (
	"context"
	"time"
)

// Reader produces one BatteryInfo per call. Source is the production Reader.
type Reader interface {
	Read(ctx context.Context, v Variant) (BatteryInfo, error)
}

// Collector turns Reader output into timestamped samples.
type Collector struct {
	reader    Reader
	variant   Variant
	sessionID string
	now       func() time.Time
}

// NewCollector creates a Collector tagging samples with sessionID.
func NewCollector(r Reader, v Variant, sessionID string) *Collector {
	return &Collector{
		reader:    r,
		variant:   v,
		sessionID: sessionID,
		now:       time.Now,
	}
}

// Variant returns the variant the collector reads with.
func (c *Collector) Variant() Variant {
	return c.variant
}

// Collect reads battery info once and returns it as a sample.
func (c *Collector) Collect(ctx context.Context) (*BatterySample, error) {
	info, err := c.reader.Read(ctx, c.variant)
	if err != nil {
		return nil, err
	}
	return &BatterySample{
		Timestamp:       c.now().Unix(),
		SessionID:       c.sessionID,
		Variant:         c.variant.Name,
		CurrentCapacity: info.CurrentCapacity,
		MaxCapacity:     info.MaxCapacity,
		DesignCapacity:  info.DesignCapacity,
		ChargePct:       info.ChargePercent(),
		HealthPct:       info.HealthPercent(),
	}, nil
}
