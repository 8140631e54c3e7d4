package frame

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dhframe/pkg/render"
	"github.com/vango-dev/dhframe/pkg/server"
	"github.com/vango-dev/dhframe/pkg/session"
	"github.com/vango-dev/dhframe/pkg/widget"
)

// ErrMissingSession is returned when an object is addressed by name, or a
// remote table has no session, and no remote session was given.
var ErrMissingSession = errors.New("remote session required to display a widget by name")

// envoyPrefixHeader is forwarded to the iframe as the envoyPrefix parameter.
const envoyPrefixHeader = "envoy-prefix"

// Run is one rerun of one session's page.
type Run struct {
	ctx     context.Context
	frame   *Frame
	server  *server.Server
	tracker *session.Tracker
	session *session.Context
	page    Page
}

// Server returns the backend handle.
func (r *Run) Server() *server.Server {
	return r.server
}

// Session returns the session this rerun belongs to.
func (r *Run) Session() *session.Context {
	return r.session
}

// Context returns the rerun's context.
func (r *Run) Context() context.Context {
	return r.ctx
}

// Add appends a non-widget node to the page.
func (r *Run) Add(n render.Node) {
	if r.page != nil {
		r.page.Add(n)
	}
}

type displayOptions struct {
	height  int
	width   int
	name    string
	key     string
	session widget.RemoteSession
}

// DisplayOption configures Display.
type DisplayOption func(*displayOptions)

// Height sets the iframe height in pixels.
func Height(px int) DisplayOption {
	return func(o *displayOptions) {
		o.height = px
	}
}

// Width sets the iframe width in pixels. 0 stretches to the page width.
func Width(px int) DisplayOption {
	return func(o *displayOptions) {
		o.width = px
	}
}

// Name binds the object under a caller-chosen identifier instead of a
// generated one. The object is still removed at the next rerun.
func Name(id string) DisplayOption {
	return func(o *displayOptions) {
		o.name = id
	}
}

// Key identifies the iframe element across reruns.
func Key(k string) DisplayOption {
	return func(o *displayOptions) {
		o.key = k
	}
}

// Session sets the remote session used to address an object by name.
func Session(s widget.RemoteSession) DisplayOption {
	return func(o *displayOptions) {
		o.session = s
	}
}

// target is the resolved iframe destination of one Display call.
type target struct {
	id     string
	base   string
	kind   widget.Kind
	remote bool
	params []widget.Param
}

// Display binds obj and renders it as an iframe on the page. obj is a widget
// variant, or a string naming an object in the remote session given with
// Session. It returns the identifier used.
func (r *Run) Display(obj any, opts ...DisplayOption) (string, error) {
	o := displayOptions{height: r.frame.config.DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}

	_, span := r.frame.tracer.Start(r.ctx, "dhframe.display",
		trace.WithAttributes(attribute.String("dhframe.session_id", r.session.ID())))
	defer span.End()

	t, err := r.bind(obj, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(
		attribute.String("dhframe.id", t.id),
		attribute.String("dhframe.kind", t.kind.String()),
		attribute.Bool("dhframe.remote", t.remote),
	)

	if r.frame.config.BaseURL != "" {
		t.base = r.frame.config.BaseURL
	}

	var src string
	if t.remote {
		src = widget.BuildWidgetURL(t.base, t.id, t.params...)
	} else {
		src, err = widget.BuildTargetURL(t.base, t.kind, t.id, t.params...)
		if err != nil {
			return "", err
		}
	}

	r.Add(&render.IFrame{
		Src:    src,
		Height: o.height,
		Width:  o.width,
		Key:    o.key,
		Title:  t.id,
	})

	r.frame.logger.Debug("displayed widget",
		"session_id", r.session.ID(),
		"id", t.id,
		"kind", t.kind,
		"remote", t.remote)
	return t.id, nil
}

// bind resolves obj to its iframe target and performs the binding.
// Nothing is bound when it returns an error.
func (r *Run) bind(obj any, o displayOptions) (target, error) {
	nonce := widget.Param{Key: "nonce", Value: widget.NewNonce()}

	switch v := obj.(type) {
	case string:
		if o.session == nil {
			return target{}, ErrMissingSession
		}
		return target{
			id:     v,
			base:   remoteBaseURL(o.session),
			kind:   widget.KindUnknown,
			remote: true,
			params: []widget.Param{nonce},
		}, nil

	case *widget.RemoteTable:
		if _, err := widget.Classify(v); err != nil {
			return target{}, err
		}
		rs := v.Session
		if rs == nil {
			rs = o.session
		}
		if rs == nil {
			return target{}, ErrMissingSession
		}

		t := target{
			id:     widget.DeriveIdentifier(o.name),
			base:   remoteBaseURL(rs),
			kind:   widget.KindTabular,
			remote: true,
			params: []widget.Param{nonce},
		}
		if prefix, ok := rs.ExtraHeaders()[envoyPrefixHeader]; ok {
			t.params = append(t.params, widget.Param{Key: "envoyPrefix", Value: prefix})
		}
		if ms, ok := rs.(widget.ManagedSession); ok {
			static, err := ms.StaticURL()
			if err != nil {
				return target{}, fmt.Errorf("resolve static url: %w", err)
			}
			t.params = append(t.params, widget.Param{Key: "authProvider", Value: "parent"})
			t.base = static
		}
		if err := rs.BindTable(t.id, v); err != nil {
			return target{}, fmt.Errorf("bind remote table %q: %w", t.id, err)
		}
		return t, nil

	default:
		kind, err := widget.Classify(obj)
		if err != nil {
			return target{}, err
		}
		id := widget.DeriveIdentifier(o.name)
		r.tracker.Bind(r.session, id, obj)
		return target{
			id:     id,
			base:   r.server.LocalURL(),
			kind:   kind,
			params: []widget.Param{nonce},
		}, nil
	}
}

func remoteBaseURL(rs widget.RemoteSession) string {
	return fmt.Sprintf("http://%s:%d/", rs.Host(), rs.Port())
}
