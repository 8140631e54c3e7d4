// Package session tracks which registry bindings belong to which browser
// session, and removes them again on the session's next rerun.
//
// A page in a rerun-based framework executes its whole body again on every
// interaction. Objects bound during one rerun are only needed until the next
// one, so each bind is remembered in the session's Context and flushed out of
// the shared registry when the next rerun begins:
//
//	tracker := session.NewTracker(srv.Registry, logger)
//	sc := session.NewContext("browser-session-1")
//
//	// every rerun
//	tracker.BeginRerun(sc)            // drop last rerun's objects
//	tracker.Bind(sc, id, table)       // register and mark for the next flush
//
// BeginRerun must run before any Bind of the same rerun. An identifier is
// therefore pending for at most one rerun cycle.
//
// # Hosting sessions
//
// The Manager owns one Context per browser session for a page host. It
// expires idle sessions in the background, flushing their pending bindings
// so abandoned tabs do not keep objects alive:
//
//	manager := session.NewManager(tracker, session.DefaultManagerConfig(), logger)
//	defer manager.Shutdown(ctx)
//
//	sc, err := manager.GetOrCreate(cookieValue)
package session
