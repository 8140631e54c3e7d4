package host

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dhframe/pkg/frame"
	"github.com/vango-dev/dhframe/pkg/metrics"
	"github.com/vango-dev/dhframe/pkg/middleware"
	"github.com/vango-dev/dhframe/pkg/render"
	"github.com/vango-dev/dhframe/pkg/session"
)

// SessionCookieName is the cookie carrying the session identifier.
const SessionCookieName = "dhframe_session"

// PageFunc renders one rerun of the page.
type PageFunc func(run *frame.Run) error

// Config configures a Host.
type Config struct {
	// Title is the document title.
	Title string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the WebSocket origin. Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// ReadTimeout closes a WebSocket that stays silent this long.
	// Default: 5 minutes.
	ReadTimeout time.Duration

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool

	// MetricsPath exposes the gatherer set by WithGatherer. Default: "/metrics".
	MetricsPath string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Title:           "dhframe",
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     SameOriginCheck,
		ReadTimeout:     5 * time.Minute,
		MetricsPath:     "/metrics",
	}
}

// SameOriginCheck accepts WebSocket requests without an Origin header or
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && originURL.Host == r.Host
}

// Host serves a page over HTTP and WebSocket.
type Host struct {
	frame    *frame.Frame
	sessions *session.Manager
	page     PageFunc
	config   Config
	upgrader websocket.Upgrader

	metrics     *metrics.Metrics
	httpMetrics *middleware.HTTPMetrics
	gatherer    prometheus.Gatherer
	tracer      trace.Tracer
	logger      *slog.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithConfig replaces the default Config. Zero fields keep their default.
func WithConfig(c Config) Option {
	return func(h *Host) {
		d := h.config
		if c.Title == "" {
			c.Title = d.Title
		}
		if c.ReadBufferSize <= 0 {
			c.ReadBufferSize = d.ReadBufferSize
		}
		if c.WriteBufferSize <= 0 {
			c.WriteBufferSize = d.WriteBufferSize
		}
		if c.CheckOrigin == nil {
			c.CheckOrigin = d.CheckOrigin
		}
		if c.ReadTimeout <= 0 {
			c.ReadTimeout = d.ReadTimeout
		}
		if c.MetricsPath == "" {
			c.MetricsPath = d.MetricsPath
		}
		h.config = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithMetrics records reruns in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Host) {
		h.metrics = m
	}
}

// WithHTTPMetrics records every request in m.
func WithHTTPMetrics(m *middleware.HTTPMetrics) Option {
	return func(h *Host) {
		h.httpMetrics = m
	}
}

// WithGatherer exposes g on Config.MetricsPath.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *Host) {
		h.gatherer = g
	}
}

// WithTracerProvider sets the tracer provider. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Host) {
		h.tracer = tp.Tracer("dhframe")
	}
}

// New creates a Host serving page.
func New(f *frame.Frame, sessions *session.Manager, page PageFunc, opts ...Option) *Host {
	h := &Host{
		frame:    f,
		sessions: sessions,
		page:     page,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer("dhframe")
	}
	h.logger = h.logger.With("component", "host")
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  h.config.ReadBufferSize,
		WriteBufferSize: h.config.WriteBufferSize,
		CheckOrigin:     h.config.CheckOrigin,
	}
	return h
}

// Handler returns the HTTP routes of the host.
func (h *Host) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if h.httpMetrics != nil {
		r.Use(h.httpMetrics.Handler)
	}
	r.Use(middleware.OpenTelemetry(
		middleware.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != h.config.MetricsPath
		}),
	))

	r.Get("/", h.servePage)
	r.Get("/ws", h.serveWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if h.gatherer != nil {
		r.Handle(h.config.MetricsPath, promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// maxRerunAttempts bounds how often a rerun looks its session up again
// after the manager ended it in between.
const maxRerunAttempts = 3

// Rerun runs the page for sc from the top and returns the rendered nodes.
// Reruns of the same session are serialised. It returns
// session.ErrSessionEnded without running the page if the manager ended sc
// before the rerun acquired it.
func (h *Host) Rerun(ctx context.Context, sc *session.Context) (*render.Buffer, error) {
	sc.Lock()
	defer sc.Unlock()

	if sc.Ended() {
		return nil, session.ErrSessionEnded
	}

	start := time.Now()
	ctx, span := h.tracer.Start(ctx, "dhframe.rerun",
		trace.WithAttributes(attribute.String("dhframe.session_id", sc.ID())))
	defer span.End()

	page := &render.Buffer{}
	run, err := h.frame.Begin(ctx, sc, page)
	if err == nil {
		err = h.page(run)
	}
	h.metrics.RecordRerun(time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Error("rerun failed", "session_id", sc.ID(), "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("dhframe.nodes", page.Len()))
	return page, nil
}

// servePage renders the full document for the caller's session.
func (h *Host) servePage(w http.ResponseWriter, r *http.Request) {
	id := h.sessionID(w, r)
	_, page, err := h.rerunSession(r.Context(), id)
	if err != nil {
		h.sessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err = render.RenderDocument(w, render.Document{
		Title:  h.config.Title,
		Body:   page,
		Script: clientScript,
	})
	if err != nil {
		h.logger.Warn("write page", "session_id", id, "error", err)
	}
}

// sessionID returns the session cookie value, issuing a new one if absent.
func (h *Host) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.config.SecureCookies,
	})
	return id
}

// rerunSession reruns the page for the session id. A session ended between
// lookup and rerun is looked up again, which creates a fresh context.
func (h *Host) rerunSession(ctx context.Context, id string) (*session.Context, *render.Buffer, error) {
	for attempt := 1; ; attempt++ {
		sc, err := h.sessions.GetOrCreate(id)
		if err != nil {
			return nil, nil, err
		}
		page, err := h.Rerun(ctx, sc)
		if errors.Is(err, session.ErrSessionEnded) && attempt < maxRerunAttempts {
			continue
		}
		return sc, page, err
	}
}

func (h *Host) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrMaxSessionsReached),
		errors.Is(err, session.ErrManagerStopped),
		errors.Is(err, session.ErrSessionEnded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "page failed: "+err.Error(), http.StatusInternalServerError)
	}
}
