package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	httpserver "wanderplan/internal/adapters/http_server"
	"wanderplan/internal/adapters/observability"
	"wanderplan/internal/bootstrap"
	"wanderplan/internal/domain"
	"wanderplan/internal/shared"
)

// ---------- fake chat-completions provider ----------

type fakeProvider struct {
	hits    atomic.Int32
	status  atomic.Int32 // 0 means 200
	content atomic.Value // string
}

func (p *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.hits.Add(1)
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") || r.Header.Get("Authorization") != "Bearer e2e-key" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if s := p.status.Load(); s != 0 {
		w.WriteHeader(int(s))
		_, _ = w.Write([]byte(`{"error":{"message":"unavailable","type":"server_error"}}`))
		return
	}
	content, _ := p.content.Load().(string)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id": "chatcmpl-e2e", "object": "chat.completion", "created": 1700000000, "model": "e2e-model",
		"choices": []any{map[string]any{
			"index": 0, "finish_reason": "stop",
			"message": map[string]any{"role": "assistant", "content": content},
		}},
	})
}

const modelItinerary = `Here is your plan:
{"destination":"Paris, France","startDate":"2025-06-01","endDate":"2025-06-03",
 "overview":"Art and food in Paris.",
 "days":[{"day":1,"date":"2025-06-01","activities":[
   {"name":"Louvre","category":"Attraction","time":"09:00 AM","description":"Museum {highlights}","duration":"3 hours","cost":"€22","location":"Rue de Rivoli"}]}],
 "budget":{"accommodation":"€900","activities":"€120","food":"€400","transportation":"€60","total":"€1480"},
 "tips":["Book Louvre tickets online"]}
Enjoy!`

const parisRequest = `{"destination":"Paris, France","startDate":"2025-06-01","endDate":"2025-06-03","budget":"Luxury","interests":["Art"]}`

func newStack(t *testing.T, provider *fakeProvider, mutate func(*shared.Config)) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(provider)
	t.Cleanup(upstream.Close)

	cfg := shared.Config{
		AppEnv:           "test",
		HandlerTimeout:   10 * time.Second,
		ModelProvider:    shared.ProviderOpenAI,
		ModelBaseURL:     upstream.URL + "/v1/openai/",
		ModelName:        "e2e-model",
		ModelAPIKey:      "e2e-key",
		ModelTemperature: 0.7,
		ModelMaxTokens:   4000,
		ModelTimeout:     2 * time.Second,
		ModelRPS:         1000,
		ModelMaxInflight: 16,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	pipe := bootstrap.New(context.Background(), cfg)
	t.Cleanup(pipe.Close)

	srv := httpserver.New(httpserver.Options{HandlerTimeout: cfg.HandlerTimeout})
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&httpserver.Handlers{Planner: pipe.Planner})
	return srv.Mux()
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, domain.Itinerary) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-itinerary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var it domain.Itinerary
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &it); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rr, it
}

// ---------- tests ----------

func TestHTTP_EndToEnd_ModelPath(t *testing.T) {
	p := &fakeProvider{}
	p.content.Store(modelItinerary)
	h := newStack(t, p, nil)

	rr, it := post(t, h, parisRequest)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Itinerary-Source") != "model" || rr.Header().Get("X-Generation-ID") == "" {
		t.Fatalf("headers: %v", rr.Header())
	}
	if it.Overview != "Art and food in Paris." || it.Budget.Breakdown == nil || it.Budget.Breakdown.Total != "€1480" {
		t.Fatalf("itinerary: %+v", it)
	}
	if p.hits.Load() != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", p.hits.Load())
	}
}

func TestHTTP_EndToEnd_DegradedAndFallback(t *testing.T) {
	p := &fakeProvider{}
	p.content.Store("DESTINATION: Paris, France\nI could not format this as JSON, sorry.")
	h := newStack(t, p, nil)

	rr, it := post(t, h, parisRequest)
	if rr.Code != http.StatusOK || rr.Header().Get("X-Itinerary-Source") != "degraded" {
		t.Fatalf("degraded: %d %v", rr.Code, rr.Header())
	}
	if it.Error == "" || it.Destination != "Paris, France" || len(it.Days) != 0 {
		t.Fatalf("degraded itinerary: %+v", it)
	}

	p.status.Store(http.StatusServiceUnavailable)
	rr, it = post(t, h, parisRequest)
	if rr.Code != http.StatusOK || rr.Header().Get("X-Itinerary-Source") != "fallback" {
		t.Fatalf("fallback: %d %v", rr.Code, rr.Header())
	}
	if len(it.Days) != 1 || len(it.Days[0].Activities) != 3 || len(it.Tips) != 4 || !strings.Contains(it.Budget.String(), "Luxury") {
		t.Fatalf("fallback itinerary: %+v", it)
	}
	if p.hits.Load() != 2 {
		t.Fatalf("no retries expected, got %d upstream calls", p.hits.Load())
	}
}

func TestHTTP_EndToEnd_NoCredential(t *testing.T) {
	p := &fakeProvider{}
	h := newStack(t, p, func(c *shared.Config) { c.ModelAPIKey = "" })

	rr, it := post(t, h, parisRequest)
	if rr.Code != http.StatusOK || rr.Header().Get("X-Itinerary-Source") != "fallback" {
		t.Fatalf("status %d headers %v", rr.Code, rr.Header())
	}
	if !strings.Contains(it.Overview, "Paris, France") {
		t.Fatalf("overview: %q", it.Overview)
	}
	if p.hits.Load() != 0 {
		t.Fatalf("no upstream call expected without a credential")
	}
}

func TestHTTP_EndToEnd_SharedCallBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	p := &fakeProvider{}
	p.content.Store(modelItinerary)
	h := newStack(t, p, func(c *shared.Config) {
		c.RedisAddr = mr.Addr()
		c.ModelCallsPerMinute = 1
	})

	if rr, _ := post(t, h, parisRequest); rr.Header().Get("X-Itinerary-Source") != "model" {
		t.Fatalf("first call should reach the model: %v", rr.Header())
	}
	rr, it := post(t, h, parisRequest)
	if rr.Code != http.StatusOK || rr.Header().Get("X-Itinerary-Source") != "fallback" || len(it.Days) != 1 {
		t.Fatalf("second call should fall back: %d %v", rr.Code, rr.Header())
	}
	if p.hits.Load() != 1 {
		t.Fatalf("budget refusal must not reach upstream, got %d calls", p.hits.Load())
	}
}

func TestHTTP_EndToEnd_InvalidAndMethod(t *testing.T) {
	p := &fakeProvider{}
	h := newStack(t, p, nil)

	rr, _ := post(t, h, `{"destination":"Paris","startDate":"2025-06-01","endDate":"2025-06-03","budget":"Luxury","interests":[]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/generate-itinerary", nil)
	get := httptest.NewRecorder()
	h.ServeHTTP(get, req)
	if get.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status %d", get.Code)
	}
	if p.hits.Load() != 0 {
		t.Fatalf("rejected requests must not reach upstream")
	}

	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrr := httptest.NewRecorder()
	h.ServeHTTP(mrr, mreq)
	body, _ := io.ReadAll(mrr.Body)
	if !strings.Contains(string(body), "wanderplan_http_requests_total") {
		t.Fatalf("metrics not exposed")
	}
}
