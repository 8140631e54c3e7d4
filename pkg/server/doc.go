// Package server owns the handle to the backend process that serves widget
// iframes.
//
// A process talks to exactly one backend. The Launcher is the guarded
// factory for it: the first successful Ensure starts the backend and every
// later call returns the same *Server without restarting anything. Create
// one Launcher at program start and pass it to whatever needs the server.
//
//	launcher := server.NewLauncher(backend.New(logger), logger)
//	srv, err := launcher.Ensure(ctx, server.LaunchOptions{Port: 8899})
//
// # Execution root drift
//
// The Server captures the backend's execution root (its registry) at
// startup. If the backend recreates that root, for example after an external
// restart of its runtime, it calls MarkDrifted and the next Sync re-captures
// the live registry. This is advisory self-healing and does not guarantee
// that bindings made against the old root survive.
package server
