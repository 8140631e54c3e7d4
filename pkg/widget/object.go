package widget

import (
	"errors"
	"fmt"
)

// Table is a handle to a table living in the local backend.
type Table struct {
	// Columns are the column names.
	Columns []string

	// Rows is the current row count.
	Rows int64

	// Ticking reports whether the table updates over time.
	Ticking bool
}

// DataFrame is an in-memory frame shipped to the backend as a table.
type DataFrame struct {
	Columns []string
	Data    [][]any
}

// Series is one plotted series of a Figure.
type Series struct {
	Name  string
	Table *Table
	X     string
	Y     string
}

// Figure is a chart built from one or more series.
type Figure struct {
	Title  string
	Series []Series
}

// RemoteTable is a table owned by a remote session. It is bound through
// the session rather than the local registry.
type RemoteTable struct {
	// Session is the remote session holding the table.
	Session RemoteSession

	// Ticket identifies the table inside the remote session.
	Ticket string

	Columns []string
}

// RemoteSession is a connection to a remote backend.
type RemoteSession interface {
	// Host is the remote server host.
	Host() string

	// Port is the remote server port.
	Port() int

	// ExtraHeaders are the headers attached to every request of the session.
	// The "envoy-prefix" header is forwarded to the iframe.
	ExtraHeaders() map[string]string

	// BindTable publishes t in the remote session under name.
	BindTable(name string, t *RemoteTable) error
}

// ManagedSession is a RemoteSession created by a session manager that owns
// authentication. Its widgets authenticate through the embedding page and
// are served from the manager's static URL.
type ManagedSession interface {
	RemoteSession

	// StaticURL returns the connection URL of the remote query processor.
	StaticURL() (string, error)
}

// ErrUnsupportedType is matched by every *UnsupportedTypeError.
var ErrUnsupportedType = errors.New("unsupported widget type")

// UnsupportedTypeError reports an object that is not a widget variant.
type UnsupportedTypeError struct {
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported widget type: %s", e.TypeName)
}

// Is reports whether target is ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// Classify returns the presentation kind of obj. Nil pointers of the
// variant types are unsupported.
func Classify(obj any) (Kind, error) {
	var nilVariant bool
	kind := KindUnknown
	switch v := obj.(type) {
	case *Table:
		kind, nilVariant = KindTabular, v == nil
	case *DataFrame:
		kind, nilVariant = KindTabular, v == nil
	case *RemoteTable:
		kind, nilVariant = KindTabular, v == nil
	case *Figure:
		kind, nilVariant = KindChart, v == nil
	}
	if kind == KindUnknown || nilVariant {
		return KindUnknown, &UnsupportedTypeError{TypeName: TypeName(obj)}
	}
	return kind, nil
}

// TypeName returns the Go type name of obj, or "nil".
func TypeName(obj any) string {
	if obj == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", obj)
}

// IsRemote reports whether obj is bound through a remote session.
func IsRemote(obj any) bool {
	_, ok := obj.(*RemoteTable)
	return ok
}
