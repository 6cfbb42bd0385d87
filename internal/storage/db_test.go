package storage

import (
	"path/filepath"
	"testing"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	})

	return db
}

func testSample(ts int64, current int) collector.BatterySample {
	return collector.BatterySample{
		Timestamp:       ts,
		SessionID:       "3f1c7a52-2b0e-4b7e-9d2a-6c1b8f0e4d11",
		Variant:         "snapshot",
		CurrentCapacity: current,
		MaxCapacity:     3531,
		DesignCapacity:  4790,
		ChargePct:       current * 100 / 3531,
		HealthPct:       73,
	}
}

func TestLatestBatterySample_Empty(t *testing.T) {
	db := openTestDB(t)

	latest, err := db.LatestBatterySample()
	if err != nil {
		t.Fatalf("LatestBatterySample() error = %v", err)
	}
	if latest != nil {
		t.Fatalf("LatestBatterySample() = %#v, want nil", latest)
	}
}

func TestBatteryRoundTrip(t *testing.T) {
	db := openTestDB(t)

	s1 := testSample(10, 3005)
	s2 := testSample(20, 2990)
	if err := db.InsertBatterySample(s1); err != nil {
		t.Fatalf("InsertBatterySample(s1) error = %v", err)
	}
	if err := db.InsertBatterySample(s2); err != nil {
		t.Fatalf("InsertBatterySample(s2) error = %v", err)
	}

	latest, err := db.LatestBatterySample()
	if err != nil {
		t.Fatalf("LatestBatterySample() error = %v", err)
	}
	if latest == nil || *latest != s2 {
		t.Fatalf("LatestBatterySample() = %#v, want %#v", latest, s2)
	}

	ranged, err := db.BatterySamplesInRange(10, 15)
	if err != nil {
		t.Fatalf("BatterySamplesInRange() error = %v", err)
	}
	if len(ranged) != 1 || ranged[0] != s1 {
		t.Fatalf("BatterySamplesInRange() = %#v, want one row equal to s1", ranged)
	}

	all, err := db.BatterySamplesInRange(0, 20)
	if err != nil {
		t.Fatalf("BatterySamplesInRange() error = %v", err)
	}
	if len(all) != 2 || all[0].Timestamp != 10 || all[1].Timestamp != 20 {
		t.Fatalf("BatterySamplesInRange(0, 20) = %#v, want both rows oldest first", all)
	}
}

func TestBatterySamplesInRange_Empty(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertBatterySample(testSample(100, 3000)); err != nil {
		t.Fatalf("InsertBatterySample() error = %v", err)
	}

	ranged, err := db.BatterySamplesInRange(0, 99)
	if err != nil {
		t.Fatalf("BatterySamplesInRange() error = %v", err)
	}
	if len(ranged) != 0 {
		t.Fatalf("BatterySamplesInRange() = %#v, want none", ranged)
	}
}
