package render

import (
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHTML string
		wantAttr string
	}{
		{"empty string", "", "", ""},
		{"plain text", "Hello, World!", "Hello, World!", "Hello, World!"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"tags", "<script>", "&lt;script&gt;", "&lt;script&gt;"},
		{"quotes", `"a" 'b'`, "&quot;a&quot; &#39;b&#39;", "&quot;a&quot; &#39;b&#39;"},
		{"whitespace", "a\nb\tc", "a\nb\tc", "a&#10;b&#9;c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeHTML(tt.input); got != tt.wantHTML {
				t.Errorf("escapeHTML(%q) = %q, want %q", tt.input, got, tt.wantHTML)
			}
			if got := escapeAttr(tt.input); got != tt.wantAttr {
				t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, got, tt.wantAttr)
			}
		})
	}
}

func TestIFrameRender(t *testing.T) {
	tests := []struct {
		name  string
		frame IFrame
		want  string
	}{
		{
			name:  "height only",
			frame: IFrame{Src: "http://localhost:8899/iframe/table/?name=t&nonce=n", Height: 600},
			want:  `<iframe src="http://localhost:8899/iframe/table/?name=t&amp;nonce=n" width="100%" height="600" style="border:0;width:100%;height:600px"></iframe>` + "\n",
		},
		{
			name:  "sized with key",
			frame: IFrame{Src: "u", Height: 200, Width: 300, Key: "k1", Title: "Prices"},
			want:  `<iframe src="u" width="300" height="200" style="border:0;width:300px;height:200px" data-key="k1" title="Prices"></iframe>` + "\n",
		},
		{
			name:  "hostile src",
			frame: IFrame{Src: `x" onload="alert(1)`},
			want:  `<iframe src="x&quot; onload=&quot;alert(1)" width="100%" style="border:0;width:100%"></iframe>` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(&tt.frame)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestBufferOrder(t *testing.T) {
	var b Buffer
	b.Add(Heading(2, "Title"))
	b.Add(Text("a < b"))
	b.Add(Paragraph("para"))

	got, err := String(&b)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "<h2>Title</h2>\na &lt; b<p>para</p>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len() after Reset = %d", b.Len())
	}
}

func TestHeadingClamp(t *testing.T) {
	got, _ := String(Heading(9, "x"))
	if got != "<h6>x</h6>\n" {
		t.Errorf("Heading(9) = %q", got)
	}
}

func TestRenderDocument(t *testing.T) {
	var body Buffer
	body.Add(Text("hi"))

	var sb strings.Builder
	err := RenderDocument(&sb, Document{Title: "A & B", Body: &body, Script: "console.log(1)"})
	if err != nil {
		t.Fatalf("RenderDocument() error: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>A &amp; B</title>",
		"<main id=\"page\">\nhi</main>",
		"<script>console.log(1)</script>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q:\n%s", want, out)
		}
	}
}
