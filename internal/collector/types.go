package collector

// BatteryInfo holds the three capacities read from AppleSmartBattery, in mAh
// (or in percent for MaxCapacity on machines that report it that way).
type BatteryInfo struct {
	CurrentCapacity int `json:"current_capacity"`
	MaxCapacity     int `json:"max_capacity"`
	DesignCapacity  int `json:"design_capacity"`
}

// BatterySample is a timestamped BatteryInfo as stored and served by the daemon.
type BatterySample struct {
	Timestamp       int64  `json:"timestamp"`
	SessionID       string `json:"session_id"`
	Variant         string `json:"variant"`
	CurrentCapacity int    `json:"current_capacity"`
	MaxCapacity     int    `json:"max_capacity"`
	DesignCapacity  int    `json:"design_capacity"`
	ChargePct       int    `json:"charge_pct"`
	HealthPct       int    `json:"health_pct"`
}

// Info returns the capacities of the sample.
func (s BatterySample) Info() BatteryInfo {
	return BatteryInfo{
		CurrentCapacity: s.CurrentCapacity,
		MaxCapacity:     s.MaxCapacity,
		DesignCapacity:  s.DesignCapacity,
	}
}
