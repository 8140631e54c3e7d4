package render

import (
	"fmt"
	"io"
	"strings"
)

// Node is a piece of page output.
type Node interface {
	Render(w io.Writer) error
}

// String renders n to a string.
func String(n Node) (string, error) {
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Text is escaped text content.
type Text string

// Render writes the escaped text.
func (t Text) Render(w io.Writer) error {
	_, err := io.WriteString(w, escapeHTML(string(t)))
	return err
}

type heading struct {
	level int
	text  string
}

// Heading returns an <hN> element. Levels are clamped to 1..6.
func Heading(level int, text string) Node {
	level = max(1, min(level, 6))
	return heading{level: level, text: text}
}

func (h heading) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "<h%d>%s</h%d>\n", h.level, escapeHTML(h.text), h.level)
	return err
}

// Paragraph returns a <p> element.
func Paragraph(text string) Node {
	return paragraph(text)
}

type paragraph string

func (p paragraph) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "<p>%s</p>\n", escapeHTML(string(p)))
	return err
}
