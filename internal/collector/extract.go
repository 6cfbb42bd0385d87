package collector

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cptspacemanspiff/abat/internal/ioreg"
)

// BatteryObject is the ioreg object whose properties carry the capacities.
const BatteryObject = "AppleSmartBattery"

// Extractor accumulates capacity fields from scanner events.
type Extractor struct {
	variant Variant
	values  [3]int
	seen    [3]bool
}

// NewExtractor returns an Extractor recognizing the property names of v.
func NewExtractor(v Variant) *Extractor {
	return &Extractor{variant: v}
}

// Handle records ev if it is a recognized property of AppleSmartBattery.
// A repeated property overwrites the earlier value.
func (e *Extractor) Handle(ev ioreg.Event) error {
	if ev.Object.Name != BatteryObject {
		return nil
	}
	field, ok := e.variant.Fields[ev.Property.Name]
	if !ok {
		return nil
	}

	raw := strings.TrimSpace(ev.Property.Value)
	// Capacities are 32-bit in the registry; anything wider is garbage.
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return &InvalidFieldValueError{Field: field, Property: ev.Property.Name, Value: raw}
	}
	e.values[field] = int(n)
	e.seen[field] = true
	return nil
}

// Result returns the accumulated BatteryInfo, or a *MissingFieldError for
// the first field never seen.
func (e *Extractor) Result() (BatteryInfo, error) {
	for _, f := range fieldOrder {
		if !e.seen[f] {
			return BatteryInfo{}, &MissingFieldError{Field: f}
		}
	}
	return BatteryInfo{
		CurrentCapacity: e.values[FieldCurrent],
		MaxCapacity:     e.values[FieldMax],
		DesignCapacity:  e.values[FieldDesign],
	}, nil
}

// Extract scans r and returns the battery capacities it contains.
func Extract(r io.Reader, v Variant) (BatteryInfo, error) {
	return ExtractContext(context.Background(), r, v)
}

// ExtractContext is Extract with cancellation.
func ExtractContext(ctx context.Context, r io.Reader, v Variant) (BatteryInfo, error) {
	e := NewExtractor(v)
	if err := ioreg.ScanContext(ctx, r, e.Handle); err != nil {
		return BatteryInfo{}, fmt.Errorf("parse ioreg output: %w", err)
	}
	return e.Result()
}
