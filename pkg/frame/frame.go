package frame

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dhframe/pkg/metrics"
	"github.com/vango-dev/dhframe/pkg/registry"
	"github.com/vango-dev/dhframe/pkg/render"
	"github.com/vango-dev/dhframe/pkg/server"
	"github.com/vango-dev/dhframe/pkg/session"
)

const tracerName = "dhframe"

// DefaultHeight is the iframe height used when Height is not given.
const DefaultHeight = 600

// Config configures a Frame.
type Config struct {
	// Launch are the options used to start the backend on first use.
	Launch server.LaunchOptions

	// BaseURL, when set, replaces the computed server address in every
	// iframe URL.
	BaseURL string

	// DefaultHeight overrides DefaultHeight.
	DefaultHeight int
}

// Page receives the nodes rendered during a rerun.
type Page interface {
	Add(render.Node)
}

// Frame binds widgets for page sessions against one backend.
type Frame struct {
	launcher *server.Launcher
	config   Config
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer

	tracker *session.Tracker
}

// Option configures a Frame.
type Option func(*Frame)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Frame) {
		f.logger = logger
	}
}

// WithMetrics records flushes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Frame) {
		f.metrics = m
	}
}

// WithTracerProvider sets the tracer provider. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *Frame) {
		f.tracer = tp.Tracer(tracerName)
	}
}

// New creates a Frame.
func New(launcher *server.Launcher, config Config, opts ...Option) *Frame {
	if config.DefaultHeight <= 0 {
		config.DefaultHeight = DefaultHeight
	}
	f := &Frame{
		launcher: launcher,
		config:   config,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.tracer == nil {
		f.tracer = otel.Tracer(tracerName)
	}
	f.logger = f.logger.With("component", "frame")
	f.tracker = session.NewTracker(f.currentRegistry, f.logger)
	return f
}

// Begin starts a rerun of sc's page. It must be called once at the start of
// every rerun, before any Display of that rerun.
//
// Begin starts the backend if needed, re-captures the registry after drift,
// opens the execution context and removes the objects sc bound during its
// previous rerun.
func (f *Frame) Begin(ctx context.Context, sc *session.Context, page Page) (*Run, error) {
	ctx, span := f.tracer.Start(ctx, "dhframe.begin",
		trace.WithAttributes(attribute.String("dhframe.session_id", sc.ID())))
	defer span.End()

	srv, err := f.launcher.Ensure(ctx, f.config.Launch)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	srv.Sync()

	if err := srv.Enter(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	flushed := f.tracker.BeginRerun(sc)
	f.metrics.RecordFlush(flushed)
	span.SetAttributes(attribute.Int("dhframe.flushed", flushed))

	return &Run{
		ctx:     ctx,
		frame:   f,
		server:  srv,
		tracker: f.tracker,
		session: sc,
		page:    page,
	}, nil
}

// currentRegistry returns the registry of the running server, or nil before the
// first successful Begin.
func (f *Frame) currentRegistry() *registry.Registry {
	if srv := f.launcher.Server(); srv != nil {
		return srv.Registry()
	}
	return nil
}

// Tracker returns the tracker that binds objects for sessions. Session
// managers flush through it when sessions end.
func (f *Frame) Tracker() *session.Tracker {
	return f.tracker
}
