package app_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"wanderplan/internal/app"
	"wanderplan/internal/domain"
)

// ---- fakes ----

type fakeModel struct {
	mu         sync.Mutex
	calls      int
	out        string
	err        error
	lastPrompt string
}

func (f *fakeModel) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	return f.out, f.err
}

func (f *fakeModel) Provider() string { return "fake" }

type captureRecorder struct {
	mu   sync.Mutex
	seen []domain.Outcome
	err  error
}

func (c *captureRecorder) RecordOutcome(_ context.Context, o domain.Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, o)
	return c.err
}

// ---- tests ----

func TestPlanner_FallbackOnEveryFailureKind(t *testing.T) {
	failures := map[domain.FailureKind]error{
		domain.FailureUnavailable:  domain.ErrModelUnavailable,
		domain.FailureTimeout:      domain.ErrModelTimeout,
		domain.FailureRateLimited:  domain.ErrModelRateLimited,
		domain.FailureServerError:  domain.ErrModelServer,
		domain.FailureClientError:  domain.ErrModelClient,
		domain.FailureNetworkError: domain.ErrModelNetwork,
	}
	for kind, err := range failures {
		t.Run(string(kind), func(t *testing.T) {
			m := &fakeModel{err: err}
			p := app.NewPlanner(m, nil, 0)

			req := validRequest()
			res, gerr := p.Generate(context.Background(), req)
			if gerr != nil {
				t.Fatalf("model failures must not surface: %v", gerr)
			}
			if res.Source != domain.SourceFallback || res.Failure != kind {
				t.Fatalf("source=%s failure=%s", res.Source, res.Failure)
			}
			validated, _ := app.Validate(req)
			if !reflect.DeepEqual(res.Itinerary, app.Fallback(validated)) {
				t.Fatalf("itinerary differs from the fallback generator")
			}
			if m.calls != 1 {
				t.Fatalf("expected exactly one model call, got %d", m.calls)
			}
		})
	}
}

func TestPlanner_UnclassifiedErrorIsNetwork(t *testing.T) {
	p := app.NewPlanner(&fakeModel{err: errors.New("connection reset")}, nil, 0)
	res, err := p.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Failure != domain.FailureNetworkError || res.Source != domain.SourceFallback {
		t.Fatalf("got %+v", res)
	}
}

func TestPlanner_DegradedDoesNotFallBack(t *testing.T) {
	m := &fakeModel{out: "Sorry, here is something:\nDestination: Paris\nnot json at all"}
	p := app.NewPlanner(m, nil, 0)
	res, err := p.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Source != domain.SourceDegraded {
		t.Fatalf("source: %s", res.Source)
	}
	if !res.Itinerary.Degraded() || len(res.Itinerary.Days) != 0 {
		t.Fatalf("expected degraded itinerary, got %+v", res.Itinerary)
	}
	if res.Itinerary.Destination != "Paris" {
		t.Fatalf("destination recovery: %q", res.Itinerary.Destination)
	}
}

func TestPlanner_ModelSuccess(t *testing.T) {
	m := &fakeModel{out: "```json\n" + `{"destination":"Paris, France","startDate":"2025-06-01","endDate":"2025-06-03","overview":"o","days":[{"day":1,"date":"2025-06-01","activities":[]}],"budget":"lots","tips":["t"]}` + "\n```"}
	p := app.NewPlanner(m, nil, 0)
	res, err := p.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Source != domain.SourceModel || res.Failure != domain.FailureNone {
		t.Fatalf("got source=%s failure=%s", res.Source, res.Failure)
	}
	if res.Itinerary.Destination != "Paris, France" || len(res.Itinerary.Days) != 1 {
		t.Fatalf("itinerary: %+v", res.Itinerary)
	}
	if res.ID == "" {
		t.Fatalf("expected a generation id")
	}
	if m.lastPrompt != app.BuildPrompt(validRequest()) {
		t.Fatalf("model did not receive the built prompt")
	}
}

func TestPlanner_ValidationRejectsWithoutModelCall(t *testing.T) {
	m := &fakeModel{out: "{}"}
	rec := &captureRecorder{}
	p := app.NewPlanner(m, rec, 0)

	req := validRequest()
	req.Destination = ""
	_, err := p.Generate(context.Background(), req)
	if !errors.Is(err, domain.ErrRequestInvalid) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if m.calls != 0 {
		t.Fatalf("model called %d times for an invalid request", m.calls)
	}
	if len(rec.seen) != 0 {
		t.Fatalf("rejected requests must not be recorded")
	}
}

func TestPlanner_ParisUnavailableEndToEnd(t *testing.T) {
	p := app.NewPlanner(&fakeModel{err: domain.ErrModelUnavailable}, nil, 0)
	res, err := p.Generate(context.Background(), domain.TripRequest{
		Destination: "Paris, France",
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-03",
		BudgetTier:  "luxury",
		Interests:   []string{"Art"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	it := res.Itinerary
	if it.Destination != "Paris, France" || len(it.Days) != 1 || len(it.Days[0].Activities) != 3 || len(it.Tips) != 4 {
		t.Fatalf("unexpected fallback shape: %+v", it)
	}
	if !strings.Contains(it.Overview, "Paris, France") || !strings.Contains(it.Budget.String(), "Luxury") {
		t.Fatalf("overview=%q budget=%q", it.Overview, it.Budget.String())
	}
	if it.Days[0].Activities[1].Category != domain.CategoryDining {
		t.Fatalf("lunch slot should be dining: %+v", it.Days[0].Activities[1])
	}
}

func TestPlanner_RecordsOutcome(t *testing.T) {
	rec := &captureRecorder{err: errors.New("sink down")}
	p := app.NewPlanner(&fakeModel{err: domain.ErrModelRateLimited}, rec, 0)

	res, err := p.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("recorder failures must not surface: %v", err)
	}
	if len(rec.seen) != 1 {
		t.Fatalf("expected one outcome, got %d", len(rec.seen))
	}
	o := rec.seen[0]
	if o.ID != res.ID || o.Provider != "fake" || o.Tier != domain.TierLuxury ||
		o.Source != domain.SourceFallback || o.Failure != domain.FailureRateLimited {
		t.Fatalf("outcome: %+v", o)
	}
	if o.CreatedAt.IsZero() {
		t.Fatalf("missing timestamp")
	}
}

func TestPlanner_FallbackDelayHonorsCancellation(t *testing.T) {
	p := app.NewPlanner(&fakeModel{err: domain.ErrModelTimeout}, nil, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := p.Generate(ctx, validRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("fallback delay ignored cancellation")
	}
	if res.Source != domain.SourceFallback || len(res.Itinerary.Days) != 1 {
		t.Fatalf("still expected a full fallback itinerary: %+v", res)
	}
}

func TestRecorders_FanOutSkipsNil(t *testing.T) {
	a, b := &captureRecorder{}, &captureRecorder{err: errors.New("boom")}
	rs := app.Recorders{a, nil, b}
	err := rs.RecordOutcome(context.Background(), domain.Outcome{ID: "x"})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if len(a.seen) != 1 || len(b.seen) != 1 {
		t.Fatalf("not fanned out: %d %d", len(a.seen), len(b.seen))
	}
}
