package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/dhframe/pkg/registry"
	"github.com/vango-dev/dhframe/pkg/server"
)

// ErrClosed is returned by Enter after the runtime was closed.
var ErrClosed = errors.New("backend runtime closed")

// Backend starts in-process widget servers.
type Backend struct {
	logger    *slog.Logger
	observers []registry.Observer
	gatherer  prometheus.Gatherer
}

// Option configures a Backend.
type Option func(*Backend)

// WithObservers attaches observers to every execution root the backend
// creates.
func WithObservers(observers ...registry.Observer) Option {
	return func(b *Backend) {
		b.observers = append(b.observers, observers...)
	}
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(b *Backend) {
		b.gatherer = g
	}
}

// New creates a Backend.
func New(logger *slog.Logger, opts ...Option) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{logger: logger.With("component", "backend")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start listens on opts.Host:opts.Port and serves the resolution endpoint.
func (b *Backend) Start(ctx context.Context, opts server.LaunchOptions) (server.Runtime, error) {
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	rt := b.NewRuntime(opts.OnDrift)
	rt.port = ln.Addr().(*net.TCPAddr).Port
	rt.httpServer = &http.Server{
		Handler:           rt.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := rt.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.logger.Error("backend server error", "error", err)
		}
	}()

	if len(opts.Args) > 0 {
		b.logger.Debug("ignoring runtime args", "args", opts.Args)
	}
	return rt, nil
}

// NewRuntime creates a runtime that is not listening. Its Handler can be
// mounted on any server. onDrift may be nil.
func (b *Backend) NewRuntime(onDrift func()) *Runtime {
	rt := &Runtime{
		backend: b,
		onDrift: onDrift,
		logger:  b.logger,
	}
	rt.scope.Store(registry.New(b.observers...))
	return rt
}

// Runtime is a running in-process backend.
type Runtime struct {
	backend    *Backend
	port       int
	httpServer *http.Server
	logger     *slog.Logger

	scope   atomic.Pointer[registry.Registry]
	onDrift func()

	entries   atomic.Int64
	closeOnce sync.Once
	closed    atomic.Bool
}

// Port returns the listen port, or 0 for a runtime created by NewRuntime.
func (rt *Runtime) Port() int {
	return rt.port
}

// Scope returns the live execution root.
func (rt *Runtime) Scope() *registry.Registry {
	return rt.scope.Load()
}

// Enter records that a session opened the execution context.
func (rt *Runtime) Enter(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rt.closed.Load() {
		return ErrClosed
	}
	rt.entries.Add(1)
	return nil
}

// Entries returns how many times Enter succeeded.
func (rt *Runtime) Entries() int64 {
	return rt.entries.Load()
}

// Recreate replaces the execution root with an empty one and reports the
// drift to the launcher.
func (rt *Runtime) Recreate() {
	rt.scope.Store(registry.New(rt.backend.observers...))
	rt.logger.Warn("execution root recreated")
	if rt.onDrift != nil {
		rt.onDrift()
	}
}

// Close stops serving.
func (rt *Runtime) Close(ctx context.Context) error {
	var err error
	rt.closeOnce.Do(func() {
		rt.closed.Store(true)
		if rt.httpServer != nil {
			err = rt.httpServer.Shutdown(ctx)
		}
	})
	return err
}
