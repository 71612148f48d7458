package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const placesJSON = `[{"display_name":"City Cardiology Clinic","lat":"18.52","lon":"73.85","type":"clinic"}]`

func fastClient(baseURL string) *Client {
	c := NewClient(baseURL, "test-agent", 2*time.Second)
	c.limiter.SetLimit(1000)
	return c
}

func TestSearchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "cardiologist near Pune" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = fmt.Fprint(w, placesJSON)
	}))
	defer server.Close()

	places, err := fastClient(server.URL).Search(context.Background(), "cardiologist near Pune", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 || places[0].Name != "City Cardiology Clinic" {
		t.Fatalf("unexpected places: %+v", places)
	}
	if places[0].Latitude != 18.52 {
		t.Fatalf("expected parsed latitude, got %v", places[0].Latitude)
	}
}

func TestSearchRetriesTransientFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, placesJSON)
	}))
	defer server.Close()

	origSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = origSleep }()

	places, err := fastClient(server.URL).Search(context.Background(), "clinic", 5)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("unexpected places: %+v", places)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestSearchDoesNotRetryClientError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	origSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = origSleep }()

	if _, err := fastClient(server.URL).Search(context.Background(), "clinic", 5); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("expected a single attempt for a client error, got %d", got)
	}
}

func TestSearchGivesUpAfterMaxAttempts(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	origSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = origSleep }()

	if _, err := fastClient(server.URL).Search(context.Background(), "clinic", 5); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := attempts.Load(); got != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, got)
	}
}

func TestSearchUsesCache(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, placesJSON)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.Search(context.Background(), "clinic", 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("expected one upstream hit with caching, got %d", got)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	if _, err := fastClient("http://unused").Search(context.Background(), "", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}
