package widget

import (
	"strings"

	"github.com/google/uuid"
)

// GeneratedPrefix marks identifiers generated for pool-managed objects.
// Caller-supplied names should not start with it.
const GeneratedPrefix = "__w_"

// DeriveIdentifier returns supplied when non-empty, else a fresh generated
// identifier.
func DeriveIdentifier(supplied string) string {
	if supplied != "" {
		return supplied
	}
	return NewIdentifier()
}

// NewIdentifier generates GeneratedPrefix followed by a random UUID with
// its hyphens replaced by underscores.
func NewIdentifier() string {
	return GeneratedPrefix + strings.ReplaceAll(uuid.NewString(), "-", "_")
}

// IsGenerated reports whether id was produced by NewIdentifier.
func IsGenerated(id string) bool {
	return strings.HasPrefix(id, GeneratedPrefix)
}

// NewNonce returns a random per-render value used to defeat iframe caching.
func NewNonce() string {
	return uuid.NewString()
}
