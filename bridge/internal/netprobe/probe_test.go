package netprobe

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldwatch/fieldwatch/pkg/types"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestProber(endpoint string) *Prober {
	p := New(endpoint, rand.New(rand.NewSource(1)))
	p.now = func() time.Time { return baseTime }
	return p
}

func TestQualityFromRSSI(t *testing.T) {
	cases := []struct {
		rssi, want int
	}{
		{-120, 0},
		{-100, 0},
		{-86, 28},
		{-75, 50},
		{-54, 92},
		{-50, 100},
		{-30, 100},
	}
	for _, tc := range cases {
		if got := QualityFromRSSI(tc.rssi); got != tc.want {
			t.Errorf("QualityFromRSSI(%d) = %d, want %d", tc.rssi, got, tc.want)
		}
	}
}

func TestMockRanges(t *testing.T) {
	p := newTestProber("")
	for i := 0; i < 1000; i++ {
		st := p.Mock()
		if st.RSSI < -86 || st.RSSI > -54 {
			t.Fatalf("mock rssi %d out of [-86, -54]", st.RSSI)
		}
		if st.Quality != QualityFromRSSI(st.RSSI) {
			t.Fatalf("mock quality %d inconsistent with rssi %d", st.Quality, st.RSSI)
		}
		if st.Timestamp != baseTime.Unix() {
			t.Fatalf("mock timestamp %d, want %d", st.Timestamp, baseTime.Unix())
		}
	}
}

func TestStatusEmptyEndpointUsesMock(t *testing.T) {
	p := newTestProber("")
	st := p.Status(context.Background())
	if st.RSSI < -86 || st.RSSI > -54 {
		t.Fatalf("rssi %d out of mock range", st.RSSI)
	}
}

func TestStatusUpstreamOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rssi":-61,"quality":78,"timestamp":1750000000}`))
	}))
	defer srv.Close()

	p := newTestProber(srv.URL)
	st := p.Status(context.Background())
	want := types.NetworkStatus{RSSI: -61, Quality: 78, Timestamp: 1750000000}
	if st != want {
		t.Fatalf("Status = %+v, want %+v", st, want)
	}
}

func TestStatusUpstreamDefaultsTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rssi":-70,"quality":60}`))
	}))
	defer srv.Close()

	p := newTestProber(srv.URL)
	st := p.Status(context.Background())
	if st.Timestamp != baseTime.Unix() {
		t.Fatalf("timestamp %d, want stamped %d", st.Timestamp, baseTime.Unix())
	}
}

func TestStatusFallsBackOnError(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			p := newTestProber(srv.URL)
			st := p.Status(context.Background())
			if st.RSSI < -86 || st.RSSI > -54 {
				t.Fatalf("expected mock fallback, got rssi %d", st.RSSI)
			}
		})
	}
}

func TestStatusUnreachableFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed immediately: connection refused

	p := newTestProber(srv.URL)
	st := p.Status(context.Background())
	if st.RSSI < -86 || st.RSSI > -54 {
		t.Fatalf("expected mock fallback, got rssi %d", st.RSSI)
	}
}
