package widget

import (
	"errors"
	"net/url"
	"strings"
)

// WidgetPath is the shared iframe path used when addressing objects by name
// through a remote session.
const WidgetPath = "widget"

// Param is one query parameter. Parameters keep their order in the URL.
type Param struct {
	Key   string
	Value string
}

// ErrNoPath is returned when a URL is requested for KindUnknown.
var ErrNoPath = errors.New("widget kind has no iframe path")

// BuildTargetURL returns base/iframe/<kind path>/?name=<id>[&extra...].
func BuildTargetURL(base string, kind Kind, id string, extra ...Param) (string, error) {
	path := kind.Path()
	if path == "" {
		return "", ErrNoPath
	}
	return buildURL(base, path, id, extra), nil
}

// BuildWidgetURL returns base/iframe/widget/?name=<id>[&extra...].
func BuildWidgetURL(base, id string, extra ...Param) string {
	return buildURL(base, WidgetPath, id, extra)
}

func buildURL(base, path, id string, extra []Param) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/iframe/")
	b.WriteString(path)
	b.WriteString("/?name=")
	b.WriteString(url.QueryEscape(id))
	for _, p := range extra {
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
