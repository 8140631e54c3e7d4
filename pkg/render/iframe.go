package render

import (
	"fmt"
	"io"
	"strings"
)

// IFrame embeds a widget served by the backend.
type IFrame struct {
	// Src is the iframe URL.
	Src string

	// Height in pixels. 0 leaves the browser default.
	Height int

	// Width in pixels. 0 stretches to the container width.
	Width int

	// Key identifies the element across reruns so the host can keep it
	// mounted. Optional.
	Key string

	// Title is the accessible title of the frame. Optional.
	Title string
}

// Render writes the <iframe> element.
func (f *IFrame) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`<iframe src="`)
	b.WriteString(escapeAttr(f.Src))
	b.WriteByte('"')

	style := []string{"border:0"}
	if f.Width > 0 {
		fmt.Fprintf(&b, ` width="%d"`, f.Width)
		style = append(style, fmt.Sprintf("width:%dpx", f.Width))
	} else {
		b.WriteString(` width="100%"`)
		style = append(style, "width:100%")
	}
	if f.Height > 0 {
		fmt.Fprintf(&b, ` height="%d"`, f.Height)
		style = append(style, fmt.Sprintf("height:%dpx", f.Height))
	}
	b.WriteString(` style="`)
	b.WriteString(strings.Join(style, ";"))
	b.WriteByte('"')

	if f.Key != "" {
		b.WriteString(` data-key="`)
		b.WriteString(escapeAttr(f.Key))
		b.WriteByte('"')
	}
	if f.Title != "" {
		b.WriteString(` title="`)
		b.WriteString(escapeAttr(f.Title))
		b.WriteByte('"')
	}
	b.WriteString("></iframe>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
