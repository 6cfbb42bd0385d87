package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

type fakeStore struct {
	samples []collector.BatterySample
	err     error

	gotFrom, gotTo int64
}

func (f *fakeStore) LatestBatterySample() (*collector.BatterySample, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.samples) == 0 {
		return nil, nil
	}
	s := f.samples[len(f.samples)-1]
	return &s, nil
}

func (f *fakeStore) BatterySamplesInRange(from, to int64) ([]collector.BatterySample, error) {
	f.gotFrom, f.gotTo = from, to
	if f.err != nil {
		return nil, f.err
	}
	var out []collector.BatterySample
	for _, s := range f.samples {
		if s.Timestamp >= from && s.Timestamp <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestServer(store *fakeStore) *Server {
	srv := New(store, nil)
	srv.now = func() time.Time { return time.Unix(1_000_000, 0) }
	return srv
}

func serve(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestAPI_Health(t *testing.T) {
	w := serve(t, newTestServer(&fakeStore{}), "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestAPI_Latest(t *testing.T) {
	sample := collector.BatterySample{Timestamp: 999_990, CurrentCapacity: 3005, MaxCapacity: 3531, DesignCapacity: 4790, ChargePct: 85, HealthPct: 73}
	w := serve(t, newTestServer(&fakeStore{samples: []collector.BatterySample{sample}}), "/api/battery")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got collector.BatterySample
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != sample {
		t.Fatalf("body = %+v, want %+v", got, sample)
	}
}

func TestAPI_Latest_Empty(t *testing.T) {
	w := serve(t, newTestServer(&fakeStore{}), "/api/battery")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestAPI_Latest_StoreError(t *testing.T) {
	w := serve(t, newTestServer(&fakeStore{err: errors.New("disk gone")}), "/api/battery")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "disk gone") {
		t.Fatalf("storage error leaked to client: %s", w.Body.String())
	}
}

func TestAPI_History(t *testing.T) {
	store := &fakeStore{samples: []collector.BatterySample{
		{Timestamp: 100, ChargePct: 90},
		{Timestamp: 200, ChargePct: 89},
		{Timestamp: 300, ChargePct: 88},
	}}
	w := serve(t, newTestServer(store), "/api/battery/history?from=150&to=300")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body struct {
		From    int64                     `json:"from"`
		To      int64                     `json:"to"`
		Battery []collector.BatterySample `json:"battery"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.From != 150 || body.To != 300 || len(body.Battery) != 2 {
		t.Fatalf("body = %+v, want 2 samples in [150, 300]", body)
	}
}

func TestAPI_History_Defaults(t *testing.T) {
	store := &fakeStore{}
	w := serve(t, newTestServer(store), "/api/battery/history")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if store.gotTo != 1_000_000 || store.gotFrom != 1_000_000-86400 {
		t.Fatalf("range = [%d, %d], want last 24h", store.gotFrom, store.gotTo)
	}
	if !strings.Contains(w.Body.String(), `"battery":[]`) {
		t.Fatalf("body = %s, want empty battery array", w.Body.String())
	}
}

func TestAPI_History_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"non-numeric from", "/api/battery/history?from=yesterday"},
		{"non-numeric to", "/api/battery/history?to=now"},
		{"negative from", "/api/battery/history?from=-5&to=10"},
		{"to before from", "/api/battery/history?from=10&to=5"},
		{"too long", "/api/battery/history?from=0&to=40000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, newTestServer(&fakeStore{}), tt.target)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestAPI_Metrics(t *testing.T) {
	srv := newTestServer(&fakeStore{})
	if w := serve(t, srv, "/metrics"); w.Code != http.StatusNotFound {
		t.Fatalf("/metrics without EnableMetrics status = %d, want 404", w.Code)
	}

	srv.EnableMetrics()
	w := serve(t, srv, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", w.Code)
	}
}
