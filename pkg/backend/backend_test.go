package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/dhframe/pkg/server"
	"github.com/vango-dev/dhframe/pkg/widget"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIframe_ResolvesBoundObject(t *testing.T) {
	rt := New(nil).NewRuntime(nil)
	rt.Scope().Register("__w_1", &widget.Table{Columns: []string{"Sym"}, Rows: 7})
	h := rt.Handler()

	rec := get(t, h, "/iframe/table/?name=__w_1&nonce=abc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("cache control = %q, want no-store", cc)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<script type="application/json" id="widget">`) {
		t.Fatalf("missing widget payload: %s", body)
	}
	if !strings.Contains(body, `"rows":7`) {
		t.Fatalf("payload does not describe the table: %s", body)
	}
}

func TestIframe_JSONFormat(t *testing.T) {
	rt := New(nil).NewRuntime(nil)
	rt.Scope().Register("fig", &widget.Figure{
		Title:  "prices",
		Series: []widget.Series{{Name: "close"}},
	})

	rec := get(t, rt.Handler(), "/iframe/chart/?name=fig&format=json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", rec.Code, rec.Body)
	}

	var desc widget.Description
	if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if desc.Kind != "chart" || desc.Title != "prices" || len(desc.Series) != 1 {
		t.Fatalf("description = %+v", desc)
	}
}

func TestIframe_Errors(t *testing.T) {
	rt := New(nil).NewRuntime(nil)
	rt.Scope().Register("tbl", &widget.Table{})
	rt.Scope().Register("bad", struct{}{})
	h := rt.Handler()

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing name", "/iframe/table/", http.StatusBadRequest},
		{"unknown object", "/iframe/table/?name=nope", http.StatusNotFound},
		{"unknown kind", "/iframe/graph/?name=tbl", http.StatusNotFound},
		{"kind mismatch", "/iframe/chart/?name=tbl", http.StatusBadRequest},
		{"undescribable", "/iframe/widget/?name=bad", http.StatusInternalServerError},
		{"shared widget path", "/iframe/widget/?name=tbl", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(t, h, tt.target); rec.Code != tt.want {
				t.Fatalf("GET %s status=%d, want %d (body=%s)", tt.target, rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestIframe_EscapesPayload(t *testing.T) {
	rt := New(nil).NewRuntime(nil)
	rt.Scope().Register("x", &widget.Figure{Title: "</script><script>alert(1)</script>"})

	body := get(t, rt.Handler(), "/iframe/chart/?name=x").Body.String()
	if strings.Contains(body, "<script>alert(1)") {
		t.Fatalf("payload was not escaped: %s", body)
	}
}

func TestRecreate_ReportsDrift(t *testing.T) {
	drifted := 0
	rt := New(nil).NewRuntime(func() { drifted++ })
	old := rt.Scope()
	old.Register("tbl", &widget.Table{})

	rt.Recreate()

	if drifted != 1 {
		t.Fatalf("drift callback called %d times, want 1", drifted)
	}
	if rt.Scope() == old {
		t.Fatal("Recreate() kept the old execution root")
	}
	if rec := get(t, rt.Handler(), "/iframe/table/?name=tbl"); rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404 after recreate", rec.Code)
	}
}

func TestEnterAndClose(t *testing.T) {
	rt := New(nil).NewRuntime(nil)
	ctx := context.Background()

	for range 2 {
		if err := rt.Enter(ctx); err != nil {
			t.Fatalf("Enter() error: %v", err)
		}
	}
	if rt.Entries() != 2 {
		t.Fatalf("entries = %d, want 2", rt.Entries())
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := rt.Enter(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("Enter(cancelled) error = %v", err)
	}

	if err := rt.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := rt.Enter(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("Enter() after Close error = %v, want ErrClosed", err)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"}))

	withMetrics := New(nil, WithGatherer(reg)).NewRuntime(nil)
	if rec := get(t, withMetrics.Handler(), "/metrics"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "probe_total") {
		t.Fatalf("/metrics status=%d body=%s", rec.Code, rec.Body)
	}

	without := New(nil).NewRuntime(nil)
	if rec := get(t, without.Handler(), "/metrics"); rec.Code != http.StatusNotFound {
		t.Fatalf("/metrics status=%d, want 404 without a gatherer", rec.Code)
	}
}

func TestStart_ServesOverTCP(t *testing.T) {
	var b server.Backend = New(nil)
	ctx := context.Background()

	rt, err := b.Start(ctx, server.LaunchOptions{Host: "127.0.0.1", Port: 0})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = rt.Close(shutdownCtx)
	}()

	if rt.Port() == 0 {
		t.Fatal("Port() = 0 after Start")
	}
	rt.Scope().Register("tbl", &widget.Table{})

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", rt.Port()))
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Fatalf("healthz status=%d body=%q", resp.StatusCode, body)
	}

	resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/iframe/table/?name=tbl", rt.Port()))
	if err != nil {
		t.Fatalf("GET iframe: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("iframe status=%d, want 200", resp.StatusCode)
	}
}

func TestStart_PortInUse(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	first, err := b.Start(ctx, server.LaunchOptions{Host: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer first.Close(ctx)

	if _, err := b.Start(ctx, server.LaunchOptions{Host: "127.0.0.1", Port: first.Port()}); err == nil {
		t.Fatal("expected listen error on a used port")
	}
}
