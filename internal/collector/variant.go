package collector

import (
	"fmt"
	"sort"
	"strings"
)

// Field identifies one of the three capacities of BatteryInfo.
type Field int

const (
	FieldCurrent Field = iota
	FieldMax
	FieldDesign
)

// fieldOrder is the order in which missing fields are reported.
var fieldOrder = []Field{FieldCurrent, FieldMax, FieldDesign}

func (f Field) String() string {
	switch f {
	case FieldCurrent:
		return "current"
	case FieldMax:
		return "max"
	case FieldDesign:
		return "design"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Variant maps the property names of one ioreg field-naming convention to
// BatteryInfo fields.
type Variant struct {
	Name   string
	Fields map[string]Field
	// Stream parses the command output while it is produced instead of
	// reading it fully first.
	Stream bool
}

var (
	// Snapshot reads a plain, fully buffered dump.
	Snapshot = Variant{
		Name: "snapshot",
		Fields: map[string]Field{
			"CurrentCapacity": FieldCurrent,
			"MaxCapacity":     FieldMax,
			"DesignCapacity":  FieldDesign,
		},
	}

	// Live parses streamed output, where the maximum capacity in mAh is
	// reported as AppleRawMaxCapacity.
	Live = Variant{
		Name: "live",
		Fields: map[string]Field{
			"CurrentCapacity":     FieldCurrent,
			"AppleRawMaxCapacity": FieldMax,
			"DesignCapacity":      FieldDesign,
		},
		Stream: true,
	}
)

var variants = map[string]Variant{
	Snapshot.Name: Snapshot,
	Live.Name:     Live,
}

// VariantByName looks up a variant by its Name.
func VariantByName(name string) (Variant, error) {
	v, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (want one of %s)", name, strings.Join(VariantNames(), ", "))
	}
	return v, nil
}

// VariantNames returns the known variant names, sorted.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
