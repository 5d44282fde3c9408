package observability_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wanderplan/internal/adapters/observability"
	"wanderplan/internal/domain"
)

type timedModel struct{ err error }

func (m timedModel) Complete(context.Context, string) (string, error) { return "{}", m.err }
func (timedModel) Provider() string                                  { return "timed" }

func scrape(t *testing.T) string {
	t.Helper()
	mh := observability.MetricsHandler(observability.InitRegistry())
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	return string(body)
}

func TestMetricsRegistryAndHandler(t *testing.T) {
	observability.ObserveHTTP("/v1/itineraries", "POST", 200, 12*time.Millisecond)
	observability.ObserveAdmission("rate", "rejected")
	_ = observability.OutcomeMetrics{}.RecordOutcome(context.Background(), domain.Outcome{
		Source: domain.SourceFallback, Failure: domain.FailureTimeout,
	})

	out := scrape(t)
	for _, want := range []string{
		"wanderplan_http_requests_total",
		`wanderplan_model_admission_events_total{event="rejected",guard="rate"}`,
		`wanderplan_generations_total{failure="timeout",source="fallback"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestInstrumentedModel(t *testing.T) {
	ok := observability.InstrumentedModel{Next: timedModel{}}
	if _, err := ok.Complete(context.Background(), "p"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	bad := observability.InstrumentedModel{Next: timedModel{err: domain.ErrModelRateLimited}}
	if _, err := bad.Complete(context.Background(), "p"); !errors.Is(err, domain.ErrModelRateLimited) {
		t.Fatalf("error must pass through, got %v", err)
	}
	if bad.Provider() != "timed" {
		t.Fatalf("provider: %q", bad.Provider())
	}

	out := scrape(t)
	for _, want := range []string{
		`wanderplan_model_requests_total{provider="timed",result="ok"}`,
		`wanderplan_model_requests_total{provider="timed",result="rate_limited"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestLabelErr(t *testing.T) {
	cases := map[string]error{
		"ok":            nil,
		"timeout":       domain.ErrModelTimeout,
		"network_error": &domain.ModelError{Kind: domain.FailureNetworkError, Err: errors.New("refused")},
		"other":         errors.New("boom"),
	}
	for want, err := range cases {
		if got := observability.LabelErr(err); got != want {
			t.Errorf("LabelErr(%v) = %q, want %q", err, got, want)
		}
	}
}
