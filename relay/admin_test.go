package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"slippstream/slippi"
)

type fakeSource struct {
	metrics *slippi.StreamMetrics
}

func (f fakeSource) Status() slippi.ConnectionStatus { return slippi.Connected }
func (f fakeSource) Details() slippi.ConnectionDetails {
	return slippi.ConnectionDetails{ConsoleNick: "Station 1", Version: "1.9.2"}
}
func (f fakeSource) Metrics() *slippi.StreamMetrics { return f.metrics }

func TestHandleAdminConfig(t *testing.T) {
	h := NewHub(DefaultConfig())

	rec := httptest.NewRecorder()
	h.HandleAdminConfig(rec, httptest.NewRequest(http.MethodGet, "/admin/config", nil))
	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["broadcastIntervalMs"] != 16 || got["maxSpectators"] != 64 {
		t.Errorf("GET config = %v", got)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCfg    Config
	}{
		{"interval", `{"broadcastIntervalMs":50}`, http.StatusOK, Config{50 * time.Millisecond, 64}},
		{"max", `{"maxSpectators":0}`, http.StatusOK, Config{50 * time.Millisecond, 0}},
		{"zero_interval", `{"broadcastIntervalMs":0}`, http.StatusBadRequest, Config{50 * time.Millisecond, 0}},
		{"negative_max", `{"maxSpectators":-1}`, http.StatusBadRequest, Config{50 * time.Millisecond, 0}},
		{"invalid_json", `{`, http.StatusBadRequest, Config{50 * time.Millisecond, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/config", strings.NewReader(tc.body))
			h.HandleAdminConfig(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := h.Config(); got != tc.wantCfg {
				t.Errorf("Config() = %+v, want %+v", got, tc.wantCfg)
			}
		})
	}

	rec = httptest.NewRecorder()
	h.HandleAdminConfig(rec, httptest.NewRequest(http.MethodDelete, "/admin/config", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", rec.Code)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHub(DefaultConfig())
	h.Publish(testFrame(1))
	m := &slippi.StreamMetrics{}
	m.IncFrames()

	rec := httptest.NewRecorder()
	HandleStats(h, fakeSource{metrics: m})(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	var got struct {
		Status  string                   `json:"status"`
		Console slippi.ConnectionDetails `json:"console"`
		Relay   map[string]any           `json:"relay"`
		Stream  map[string]any           `json:"stream"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "connected" || got.Console.ConsoleNick != "Station 1" {
		t.Errorf("status = %q console = %+v", got.Status, got.Console)
	}
	if got.Relay["frames_published"] != float64(1) || got.Stream["frames_emitted"] != float64(1) {
		t.Errorf("relay = %v stream = %v", got.Relay, got.Stream)
	}
}

func TestRouterEndpoints(t *testing.T) {
	h := NewHub(DefaultConfig())
	reg := prometheus.NewRegistry()
	h.Metrics().Register(reg)
	m := &slippi.StreamMetrics{}
	reg.MustRegister(m)
	srv := httptest.NewServer(NewRouter(h, fakeSource{metrics: m}, reg))
	defer srv.Close()

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b)
	}

	if code, body := get("/healthz"); code != http.StatusOK || body != "ok" {
		t.Errorf("/healthz = %d %q", code, body)
	}
	code, body := get("/metrics")
	if code != http.StatusOK {
		t.Fatalf("/metrics status = %d", code)
	}
	for _, name := range []string{"slippstream_relay_spectators", "slippstream_frames_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics missing %s", name)
		}
	}
	if code, _ := get("/admin/stats"); code != http.StatusOK {
		t.Errorf("/admin/stats status = %d", code)
	}
	if code, _ := get("/nope"); code != http.StatusNotFound {
		t.Errorf("/nope status = %d, want 404", code)
	}
}

func TestRouterRecordsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	srv := httptest.NewServer(NewRouter(NewHub(DefaultConfig()), nil, nil))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if spans[0].Name() != "GET /healthz" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	var status attribute.Value
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "http.status_code" {
			status = kv.Value
		}
	}
	if status.AsInt64() != http.StatusOK {
		t.Errorf("http.status_code = %v, want 200", status.Emit())
	}
}
