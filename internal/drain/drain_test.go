package drain

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

type fakeBatterySampler struct {
	samples []*collector.BatterySample
	errs    []error
	idx     int
}

func (f *fakeBatterySampler) Collect(context.Context) (*collector.BatterySample, error) {
	i := f.idx
	f.idx++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if len(f.samples) == 0 {
		return &collector.BatterySample{}, nil
	}
	if i >= len(f.samples) {
		return f.samples[len(f.samples)-1], nil
	}
	return f.samples[i], nil
}

func TestMeasureRate_Discharging(t *testing.T) {
	bs := &fakeBatterySampler{samples: []*collector.BatterySample{
		{CurrentCapacity: 3000, MaxCapacity: 4000},
		{CurrentCapacity: 2990, MaxCapacity: 4000},
	}}

	rate, err := MeasureRate(context.Background(), bs, 20*time.Millisecond, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("MeasureRate() error = %v", err)
	}
	if rate.MAhPerHour >= 0 {
		t.Fatalf("MAhPerHour = %v, want < 0", rate.MAhPerHour)
	}
	if rate.PctPerHour >= 0 {
		t.Fatalf("PctPerHour = %v, want < 0", rate.PctPerHour)
	}
	if rate.Charging() {
		t.Fatal("Charging() = true, want false")
	}
	if rate.Samples < 2 {
		t.Fatalf("Samples = %d, want >= 2", rate.Samples)
	}
	if rate.Elapsed < 20*time.Millisecond {
		t.Fatalf("Elapsed = %v, want >= window", rate.Elapsed)
	}
	if rate.First.CurrentCapacity != 3000 || rate.Last.CurrentCapacity != 2990 {
		t.Fatalf("First/Last = %d/%d, want 3000/2990", rate.First.CurrentCapacity, rate.Last.CurrentCapacity)
	}
}

func TestMeasureRate_SkipsFailedSamples(t *testing.T) {
	bs := &fakeBatterySampler{
		samples: []*collector.BatterySample{
			{CurrentCapacity: 1000, MaxCapacity: 4000},
			{CurrentCapacity: 1000, MaxCapacity: 4000},
			{CurrentCapacity: 1100, MaxCapacity: 4000},
		},
		errs: []error{nil, errors.New("ioreg busy")},
	}

	rate, err := MeasureRate(context.Background(), bs, 20*time.Millisecond, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("MeasureRate() error = %v", err)
	}
	if !rate.Charging() {
		t.Fatalf("Charging() = false for rate %+v", rate)
	}
}

func TestMeasureRate_NotEnoughSamples(t *testing.T) {
	boom := errors.New("boom")
	bs := &fakeBatterySampler{errs: []error{boom, boom, boom, boom, boom, boom, boom, boom, boom, boom}}

	_, err := MeasureRate(context.Background(), bs, 10*time.Millisecond, 10*time.Millisecond)
	if !errors.Is(err, boom) {
		t.Fatalf("MeasureRate() error = %v, want wrapped sampler error", err)
	}
}

func TestMeasureRate_ValidatesArguments(t *testing.T) {
	bs := &fakeBatterySampler{}

	if _, err := MeasureRate(context.Background(), bs, 0, time.Millisecond); err == nil {
		t.Fatal("expected error for zero window")
	}
	if _, err := MeasureRate(context.Background(), bs, time.Second, 0); err == nil {
		t.Fatal("expected error for zero poll interval")
	}
	if _, err := MeasureRate(context.Background(), bs, time.Second, 2*time.Second); err == nil {
		t.Fatal("expected error for poll longer than window")
	}
}

func TestMeasureRate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MeasureRate(ctx, &fakeBatterySampler{}, time.Hour, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("MeasureRate() error = %v, want context.Canceled", err)
	}
}

func TestRate_Remaining(t *testing.T) {
	tests := []struct {
		name   string
		rate   Rate
		want   time.Duration
		wantOK bool
	}{
		{
			name:   "discharging",
			rate:   Rate{MAhPerHour: -1000, Last: collector.BatterySample{CurrentCapacity: 2500, MaxCapacity: 4000}},
			want:   150 * time.Minute,
			wantOK: true,
		},
		{
			name:   "charging",
			rate:   Rate{MAhPerHour: 2000, Last: collector.BatterySample{CurrentCapacity: 3000, MaxCapacity: 4000}},
			want:   30 * time.Minute,
			wantOK: true,
		},
		{
			name: "flat",
			rate: Rate{Last: collector.BatterySample{CurrentCapacity: 3000, MaxCapacity: 4000}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rate.Remaining()
			if ok != tt.wantOK {
				t.Fatalf("Remaining() ok = %v, want %v", ok, tt.wantOK)
			}
			if math.Abs(float64(got-tt.want)) > float64(time.Second) {
				t.Fatalf("Remaining() = %v, want %v", got, tt.want)
			}
		})
	}
}
