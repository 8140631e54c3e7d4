package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vango-dev/dhframe/pkg/registry"
)

// ErrBackendStart wraps every failure to start the backend.
var ErrBackendStart = errors.New("backend failed to start")

// Server is the handle to the running backend.
type Server struct {
	host    string
	port    int
	args    []string
	runtime Runtime

	mu       sync.RWMutex
	registry *registry.Registry
	drifted  bool

	logger *slog.Logger
}

// Host returns the configured listen host, or "localhost" when none was set.
func (s *Server) Host() string {
	if s.host == "" {
		return "localhost"
	}
	return s.host
}

// Port returns the backend port.
func (s *Server) Port() int {
	return s.port
}

// Args returns the runtime arguments the backend was started with.
func (s *Server) Args() []string {
	return append([]string(nil), s.args...)
}

// LocalURL returns the address pages use to reach the local backend.
func (s *Server) LocalURL() string {
	return fmt.Sprintf("http://localhost:%d/", s.port)
}

// Runtime returns the backend runtime.
func (s *Server) Runtime() Runtime {
	return s.runtime
}

// Registry returns the captured registry.
func (s *Server) Registry() *registry.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// MarkDrifted records that the backend's execution root was recreated.
func (s *Server) MarkDrifted() {
	s.mu.Lock()
	s.drifted = true
	s.mu.Unlock()
}

// Sync re-captures the registry from the runtime if drift was recorded.
// It reports whether a re-capture happened.
func (s *Server) Sync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.drifted {
		return false
	}
	s.drifted = false
	s.registry = s.runtime.Scope()
	s.logger.Warn("execution root drifted, registry re-captured",
		"objects", s.registry.Len())
	return true
}

// Enter opens the backend execution context for the calling session.
func (s *Server) Enter(ctx context.Context) error {
	return s.runtime.Enter(ctx)
}

// Launcher starts the backend once per process and hands out the shared
// *Server.
type Launcher struct {
	backend Backend
	logger  *slog.Logger

	mu  sync.Mutex
	srv *Server
}

// NewLauncher creates a Launcher for backend.
func NewLauncher(backend Backend, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		backend: backend,
		logger:  logger.With("component", "launcher"),
	}
}

// Ensure returns the running server, starting the backend on first use.
//
// Options of later calls are ignored once the server runs. A failed start
// is not remembered; the next call tries again.
func (l *Launcher) Ensure(ctx context.Context, opts LaunchOptions) (*Server, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.srv != nil {
		return l.srv, nil
	}

	srv := &Server{
		host:   opts.Host,
		args:   append([]string(nil), opts.Args...),
		logger: l.logger,
	}
	opts.OnDrift = srv.MarkDrifted

	l.logger.Info("starting backend", "host", opts.Host, "port", opts.Port)
	rt, err := l.backend.Start(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendStart, err)
	}

	srv.runtime = rt
	srv.port = rt.Port()
	srv.registry = rt.Scope()
	l.srv = srv

	l.logger.Info("backend listening", "port", srv.port)
	return srv, nil
}

// Server returns the running server, or nil before the first successful
// Ensure.
func (l *Launcher) Server() *Server {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.srv
}

// Shutdown stops the backend if it was started.
func (l *Launcher) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	srv := l.srv
	l.srv = nil
	l.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.runtime.Close(ctx)
}
