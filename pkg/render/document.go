package render

import (
	"fmt"
	"io"
)

// Document is a complete HTML page.
type Document struct {
	// Title is the page title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Body is rendered inside <main id="page">.
	Body Node

	// Script is inline JavaScript appended to the body. Not escaped.
	Script string
}

// RenderDocument writes doc as a full HTML document.
func RenderDocument(w io.Writer, doc Document) error {
	lang := doc.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n<main id=\"page\">\n",
		escapeAttr(lang), escapeHTML(doc.Title)); err != nil {
		return err
	}
	if doc.Body != nil {
		if err := doc.Body.Render(w); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</main>\n"); err != nil {
		return err
	}
	if doc.Script != "" {
		if _, err := fmt.Fprintf(w, "<script>%s</script>\n", doc.Script); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
