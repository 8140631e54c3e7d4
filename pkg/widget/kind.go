package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Kind is the presentation path of a bindable object.
type Kind int

const (
	KindUnknown Kind = iota
	KindTabular
	KindChart
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTabular:
		return "Tabular"
	case KindChart:
		return "Chart"
	default:
		return "Unknown"
	}
}

// Path returns the iframe path segment served for the kind.
func (k Kind) Path() string {
	switch k {
	case KindTabular:
		return "table"
	case KindChart:
		return "chart"
	default:
		return ""
	}
}

// ErrUnknownKind is returned by ParseKind for names outside the kind set.
var ErrUnknownKind = errors.New("unknown widget kind")

// kindNames are the accepted spellings for ParseKind.
var kindNames = map[string]Kind{
	"table":   KindTabular,
	"tabular": KindTabular,
	"grid":    KindTabular,
	"chart":   KindChart,
	"figure":  KindChart,
	"plot":    KindChart,
}

// UnknownKindError reports a kind name that could not be parsed.
type UnknownKindError struct {
	Name       string
	Suggestion string
}

func (e *UnknownKindError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown widget kind %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown widget kind %q", e.Name)
}

// Is reports whether target is ErrUnknownKind.
func (e *UnknownKindError) Is(target error) bool {
	return target == ErrUnknownKind
}

// ParseKind parses a kind name such as "table" or "chart".
// Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if k, ok := kindNames[key]; ok {
		return k, nil
	}
	return KindUnknown, &UnknownKindError{Name: name, Suggestion: suggestKind(key)}
}

// suggestKind returns the closest accepted name within an edit distance of 2.
func suggestKind(name string) string {
	if name == "" {
		return ""
	}
	best, bestDist := "", 3
	for candidate := range kindNames {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist || (d == bestDist && best != "" && candidate < best) {
			best, bestDist = candidate, d
		}
	}
	return best
}
