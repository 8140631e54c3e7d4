package backend

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/dhframe/pkg/render"
	"github.com/vango-dev/dhframe/pkg/widget"
)

// Handler returns the HTTP routes of the runtime.
func (rt *Runtime) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/iframe/{kind}/", rt.serveIframe)

	if rt.backend.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.backend.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// serveIframe resolves ?name= through the live execution root.
func (rt *Runtime) serveIframe(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != widget.WidgetPath {
		k, err := widget.ParseKind(kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		kind = k.Path()
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}

	obj, ok := rt.Scope().Lookup(name)
	if !ok {
		http.Error(w, "widget not found: "+name, http.StatusNotFound)
		return
	}

	desc, err := widget.Describe(obj)
	if err != nil {
		rt.logger.Error("cannot describe bound object", "id", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if kind != widget.WidgetPath && kind != desc.Kind {
		http.Error(w, "widget "+name+" is a "+desc.Kind+", not a "+kind, http.StatusBadRequest)
		return
	}

	w.Header().Set("Cache-Control", "no-store")

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(desc)
		return
	}

	payload, err := json.Marshal(desc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = render.RenderDocument(w, render.Document{
		Title: name,
		Body:  widgetData(payload),
	})
	if err != nil {
		rt.logger.Warn("write iframe response", "id", name, "error", err)
	}
}

// widgetData embeds the JSON description for the viewer script.
// json.Marshal escapes <, > and &, so the payload cannot close the tag.
type widgetData []byte

func (d widgetData) Render(w io.Writer) error {
	if _, err := io.WriteString(w, `<script type="application/json" id="widget">`); err != nil {
		return err
	}
	if _, err := w.Write(d); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</script>\n")
	return err
}
