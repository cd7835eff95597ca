package sensors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/smart-bin/go-controller/internal/facts"
)

func TestRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/readings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"weight_grams": 230.5,
			"inductive": true,
			"humidity_percent": 42.0,
			"temperature_celsius": 21.5,
			"ir_transparency": 0.12,
			"flex_signal": 0.05
		}`))
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL, srv.Client())
	got, err := c.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := facts.Readings{
		WeightGrams:        230.5,
		Inductive:          true,
		HumidityPercent:    42.0,
		TemperatureCelsius: 21.5,
		IRTransparency:     0.12,
		FlexSignal:         0.05,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("readings mismatch (-want +got):\n%s", diff)
	}
}

func TestReadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bridge not ready", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL, srv.Client())
	if _, err := c.Read(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestReadBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{")) // truncated
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL, srv.Client())
	if _, err := c.Read(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
