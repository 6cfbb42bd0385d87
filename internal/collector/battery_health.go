package collector

// ChargePercent returns CurrentCapacity/MaxCapacity*100, truncated.
// A zero MaxCapacity yields 0.
func (b BatteryInfo) ChargePercent() int {
	return percent(b.CurrentCapacity, b.MaxCapacity)
}

// HealthPercent returns MaxCapacity/DesignCapacity*100, truncated.
// A zero DesignCapacity yields 0.
func (b BatteryInfo) HealthPercent() int {
	return percent(b.MaxCapacity, b.DesignCapacity)
}

// Consistent reports whether 0 <= current <= max <= design, which holds for
// every real battery reading. It is a sanity check, not a parse constraint.
func (b BatteryInfo) Consistent() bool {
	return 0 <= b.CurrentCapacity &&
		b.CurrentCapacity <= b.MaxCapacity &&
		b.MaxCapacity <= b.DesignCapacity
}

func percent(num, den int) int {
	if den <= 0 {
		return 0
	}
	return int(int64(num) * 100 / int64(den))
}
