// Package frame is the call surface page code uses to embed backend widgets.
//
// Every page rerun starts with Begin, which makes sure the backend is
// running, opens its execution context and flushes the objects this session
// bound during its previous rerun. Display then binds objects and renders
// them as iframes:
//
//	f := frame.New(launcher, frame.Config{Launch: server.LaunchOptions{Port: 8899}})
//
//	func page(ctx context.Context, sc *session.Context, out *render.Buffer) error {
//	    run, err := f.Begin(ctx, sc, out)
//	    if err != nil {
//	        return err
//	    }
//	    if _, err := run.Display(table, frame.Height(200)); err != nil {
//	        return err
//	    }
//	    _, err = run.Display(figure, frame.Height(400))
//	    return err
//	}
//
// # Local and remote objects
//
// Local objects (*widget.Table, *widget.DataFrame, *widget.Figure) are
// registered with the backend under a generated identifier, or under
// Name(...) when given, and are removed again at the session's next rerun.
//
// Objects that live in a remote session are not tracked. A
// *widget.RemoteTable is published through its own session, and a bare
// identifier string addresses an object that already exists remotely; the
// latter requires Session(...).
package frame
