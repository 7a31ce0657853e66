// Package subcmd routes text sub-commands to declared operations.
//
// A Dispatcher owns a root command (e.g. "tusk") and a list of handlers. Each
// handler exposes operations tagged with Meta. On every invocation the
// dispatcher picks the first operation whose name, visibility, argument bounds
// and permission all match, and falls back to usage text otherwise.
package subcmd

import "strings"

// Shape tells the dispatcher whether an operation wants its argument list.
type Shape int

const (
	// ShapeSender operations receive a nil argument list unless their bounds
	// are non-zero.
	ShapeSender Shape = iota
	// ShapeArgs operations always receive the argument list.
	ShapeArgs
)

// Meta describes a single operation. It is never mutated after registration.
type Meta struct {
	// Names are case-insensitive aliases. No names marks the default operation,
	// reached when no sub-command is given.
	Names        []string
	Permission   string
	Usage        []string
	Min          int
	Max          int
	AllowConsole bool
	Description  string
	Shape        Shape
}

// Matches reports whether sub selects this operation.
func (m Meta) Matches(sub string) bool {
	if len(m.Names) == 0 {
		return sub == ""
	}
	return m.HasName(sub)
}

// HasName reports whether name is one of the aliases, ignoring case.
func (m Meta) HasName(name string) bool {
	for _, n := range m.Names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Accepts reports whether n arguments fall within [Min, Max].
func (m Meta) Accepts(n int) bool {
	return n >= m.Min && n <= m.Max
}

// VisibleTo reports whether s may see and invoke the operation at all.
func (m Meta) VisibleTo(s Sender) bool {
	return m.AllowConsole || s.Interactive()
}

// PermittedTo reports whether s holds the required permission.
func (m Meta) PermittedTo(s Sender) bool {
	return m.Permission == "" || s.HasPermission(m.Permission)
}

// TakesArgs reports whether the argument list is passed to the action.
func (m Meta) TakesArgs() bool {
	return m.Shape == ShapeArgs || m.Min > 0 || m.Max > 0
}

// Primary returns the first alias or "" for the default operation.
func (m Meta) Primary() string {
	if len(m.Names) == 0 {
		return ""
	}
	return m.Names[0]
}
