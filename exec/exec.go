package exec

import "context"

// Mode tells a Session how to interpret command text.
type Mode uint8

const (
	// ModeText executes the command text as a SQL statement.
	ModeText Mode = iota
	// ModeProcedure treats the command text as a stored-procedure name.
	ModeProcedure
)

// String returns a readable name for the mode.
func (m Mode) String() string {
	if m == ModeProcedure {
		return "ProcedureCall"
	}
	return "Text"
}

// Command is the value generated handlers hand to a Session: the synthesized
// command text, its execution mode, and the parameter set produced by the
// command's projection. Args is either a map[string]any of resolved parameter
// names, or the command value itself when the projection is a pass-through.
type Command struct {
	Text string
	Mode Mode
	Args any
}

// Session executes commands against one data source. Implementations decide
// how named parameters bind and how rows scan into destinations; DB provides
// a database/sql-backed implementation.
type Session interface {
	// Execute runs the command and returns the affected-row count.
	Execute(ctx context.Context, cmd Command) (int64, error)
	// QueryScalar runs the command and returns the first column of the
	// first row.
	QueryScalar(ctx context.Context, cmd Command) (any, error)
	// QuerySingle scans the first row into dest, which must be a pointer.
	// dest is left zero-valued when no row matches.
	QuerySingle(ctx context.Context, cmd Command, dest any) error
	// QueryMany scans all rows into dest, which must be a pointer to a
	// slice.
	QueryMany(ctx context.Context, cmd Command, dest any) error
}

// Source hands out sessions by data-source key. The empty key selects the
// default data source.
type Source interface {
	Session(key string) Session
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(key string) Session

// Session returns f(key).
func (f SourceFunc) Session(key string) Session { return f(key) }

// Single returns a Source that serves the same session for every key.
func Single(s Session) Source {
	return SourceFunc(func(string) Session { return s })
}

// Map is a keyed Source. The "" entry serves as the default session.
type Map map[string]Session

// Session returns the session registered under key, falling back to the
// default entry.
func (m Map) Session(key string) Session {
	if s, ok := m[key]; ok {
		return s
	}
	return m[""]
}
