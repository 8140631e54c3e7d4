// Package host serves rerun-based pages whose widgets are embedded as
// iframes.
//
// Every browser session is identified by a cookie. A GET of the page and
// every "rerun" message on the page's WebSocket run the page function from
// the top: frame.Begin sweeps the bindings of the previous rerun and the
// page displays fresh ones.
//
//	h := host.New(f, sessions, func(run *frame.Run) error {
//	    run.Add(render.Heading(1, "Prices"))
//	    _, err := run.Display(prices)
//	    return err
//	})
//	http.ListenAndServe(":8501", h.Handler())
//
// WebSocket messages from the client are plain text: "rerun" runs the page
// again and "end" ends the session. Replies are JSON objects with a type of
// "render" or "error".
package host
