package server

import (
	"context"

	"github.com/vango-dev/dhframe/pkg/registry"
)

// LaunchOptions configure a backend start.
type LaunchOptions struct {
	// Host is the interface the backend listens on. Empty means all.
	Host string

	// Port is the listen port. 0 picks a free port.
	Port int

	// Args are extra runtime arguments passed through to the backend.
	Args []string

	// OnDrift is set by the Launcher. Backends call it after recreating
	// their execution root.
	OnDrift func()
}

// Backend starts the widget server.
type Backend interface {
	Start(ctx context.Context, opts LaunchOptions) (Runtime, error)
}

// Runtime is a started backend.
type Runtime interface {
	// Port is the port the backend actually listens on.
	Port() int

	// Scope returns the live execution root holding bound objects.
	Scope() *registry.Registry

	// Enter opens the backend's execution context for the calling session.
	// It must be called once per rerun before binding objects.
	Enter(ctx context.Context) error

	// Close stops the backend.
	Close(ctx context.Context) error
}
