package storage

import (
	"errors"
	"testing"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to int64
		wantErr  bool
	}{
		{"empty range", 10, 10, false},
		{"full year", 0, MaxRangeSeconds, false},
		{"negative from", -1, 0, true},
		{"to before from", 10, 9, true},
		{"too large", 0, MaxRangeSeconds + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("ValidateRange(%d, %d) error = %v, want ErrInvalidRange", tt.from, tt.to, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateRange(%d, %d) error = %v", tt.from, tt.to, err)
			}
		})
	}
}
