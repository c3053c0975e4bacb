package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}

	if m.Registry() == nil {
		t.Error("Registry() returned nil")
	}

	// Every collector must be registered
	m.QueryResults.WithLabelValues("true")
	m.APIRequestsTotal.WithLabelValues("GET", "/health", "200")
	m.APIRequestDurationSeconds.WithLabelValues("GET", "/health")
	m.APIErrorsTotal.WithLabelValues("not_found")
	n, err := testutil.GatherAndCount(m.Registry())
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7 registered metrics, got %d", n)
	}
}

func TestGlobalMetrics(t *testing.T) {
	// Initially global should be nil
	if Global() != nil {
		t.Error("Global() should be nil before SetGlobal")
	}

	m := New()
	SetGlobal(m)

	if Global() != m {
		t.Error("Global() did not return the set metrics")
	}

	// Cleanup
	SetGlobal(nil)
}

func TestSetCorpusSize(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	SetCorpusSize(240)

	if got := testutil.ToFloat64(m.CorpusSize); got != 240 {
		t.Errorf("Expected corpus size 240, got %f", got)
	}
}

func TestObserveQueryResults(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	ObserveQueryResults(25, false)
	ObserveQueryResults(10, true)
	ObserveQueryResults(0, true)

	if n := testutil.CollectAndCount(m.QueryResults); n != 2 {
		t.Errorf("Expected 2 label sets, got %d", n)
	}
}

func TestIncRateLimitExceeded(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	IncRateLimitExceeded()
	IncRateLimitExceeded()

	if got := testutil.ToFloat64(m.RateLimitExceededTotal); got != 2 {
		t.Errorf("Expected counter value 2, got %f", got)
	}
}

func TestSetUptime(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	SetUptime(12.5)

	if got := testutil.ToFloat64(m.UptimeSeconds); got != 12.5 {
		t.Errorf("Expected uptime 12.5, got %f", got)
	}
}

func TestGlobalNilSafe(t *testing.T) {
	SetGlobal(nil)

	// None of these should panic
	SetCorpusSize(1)
	ObserveQueryResults(1, false)
	IncRateLimitExceeded()
	SetUptime(1)
}
