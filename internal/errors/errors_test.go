package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/dhframe/pkg/frame"
	"github.com/vango-dev/dhframe/pkg/server"
	"github.com/vango-dev/dhframe/pkg/session"
	"github.com/vango-dev/dhframe/pkg/widget"
)

func TestNew(t *testing.T) {
	err := New("E110")
	if err.Code != "E110" {
		t.Errorf("Code = %q, want E110", err.Code)
	}
	if err.Category != CategoryBackend {
		t.Errorf("Category = %q, want backend", err.Category)
	}
	if err.DocURL == "" {
		t.Error("DocURL is empty")
	}

	unknown := New("E999")
	if unknown.Message != "Unknown error" {
		t.Errorf("unknown code message = %q", unknown.Message)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"code", New("E100"), "E100: Unsupported widget type"},
		{"no code", Newf(CategoryCLI, "bad flag %s", "--x"), "bad flag --x"},
		{"wrapped", New("E110").Wrap(stderrors.New("port in use")), "E110: Backend failed to start: port in use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromError(t *testing.T) {
	_, kindErr := widget.ParseKind("tabel")
	_, typeErr := widget.Classify(42)

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unsupported type", typeErr, "E100"},
		{"missing session", fmt.Errorf("display: %w", frame.ErrMissingSession), "E101"},
		{"unknown kind", kindErr, "E102"},
		{"no path", widget.ErrNoPath, "E103"},
		{"backend start", fmt.Errorf("%w: listen: address in use", server.ErrBackendStart), "E110"},
		{"session limit", session.ErrMaxSessionsReached, "E130"},
		{"manager stopped", session.ErrManagerStopped, "E131"},
		{"unrecognised", stderrors.New("something else"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Code != tt.code {
				t.Fatalf("Code = %q, want %q", got.Code, tt.code)
			}
			if tt.code != "" && !stderrors.Is(got, tt.err) {
				t.Fatal("mapped error does not wrap the original")
			}
		})
	}

	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}

	coded := New("E120")
	if FromError(fmt.Errorf("load: %w", coded)) != coded {
		t.Error("FromError should return an existing *Error unchanged")
	}
}

func TestFromErrorKindSuggestion(t *testing.T) {
	_, err := widget.ParseKind("tabel")
	got := FromError(err)
	if !strings.Contains(got.Suggestion, `"table"`) {
		t.Errorf("Suggestion = %q, want a suggestion of table", got.Suggestion)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E110").Wrap(stderrors.New("port in use")).Format()
	for _, want := range []string{
		"ERROR E110: Backend failed to start",
		"Cause: port in use",
		"Hint: Pick a free port",
		"Learn more: https://dhframe.dev/docs/errors/E110",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() emitted colors while disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	if got := New("E101").FormatCompact(); got != "E101: Remote session required" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	out := New("E100").Wrap(stderrors.New(`type "int"`)).FormatJSON()

	var decoded map[string]string
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v\n%s", err, out)
	}
	if decoded["code"] != "E100" || decoded["category"] != "widget" || decoded["cause"] != `type "int"` {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line %q longer than 20", line)
		}
	}
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %d lines", len(lines))
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestRegistryCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s incomplete: %+v", code, tmpl)
		}
	}

	Register("E199", ErrorTemplate{Category: CategoryCLI, Message: "test"})
	defer delete(registry, "E199")
	if _, ok := GetTemplate("E199"); !ok {
		t.Error("Register did not add the template")
	}
}
