package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/dacgen/descriptor"
	"github.com/syssam/dacgen/exec"
)

// FunctionMarker prefixes a function source whose text is a schema-qualified
// callable name to be wrapped in a SELECT * FROM call. Without the marker the
// text is a literal SQL fragment that already carries its own SELECT prefix.
const FunctionMarker = '$'

// ParamMarker prefixes resolved parameter names in synthesized command text.
const ParamMarker = '@'

// Synthesize produces the final command text and execution mode for a
// resolved command source and its parameter list:
//
//   - Procedure: the procedure name verbatim, procedure-call mode.
//   - RawSQL: the SQL text verbatim, text mode.
//   - Function with the leading marker: SELECT * FROM name(@p1, @p2, ...).
//   - Function without the marker: the literal text with (@p1, @p2, ...)
//     appended.
//
// Zero parameters synthesize empty parentheses in both function forms.
func Synthesize(src descriptor.Source, params []*Param) (string, exec.Mode) {
	switch src.Kind {
	case descriptor.SourceProcedure:
		return src.Text, exec.ModeProcedure
	case descriptor.SourceRawSQL:
		return src.Text, exec.ModeText
	case descriptor.SourceFunction:
		markers := make([]string, 0, len(params))
		for _, p := range params {
			if p.Ignored {
				continue
			}
			markers = append(markers, string(ParamMarker)+p.Name)
		}
		list := strings.Join(markers, ", ")
		if name, ok := strings.CutPrefix(src.Text, string(FunctionMarker)); ok {
			return fmt.Sprintf("SELECT * FROM %s(%s)", name, list), exec.ModeText
		}
		return fmt.Sprintf("%s(%s)", src.Text, list), exec.ModeText
	}
	return "", exec.ModeText
}

// validFunctionName reports whether a function source is safe to synthesize
// a call from. Text carrying the leading marker is interpolated into a
// SELECT statement, so it must strictly match the SQL callable name grammar:
// one or more dot-separated segments, each a bare identifier, a
// bracket-delimited identifier, or a double-quote-delimited identifier.
// Marker-less text is an opaque literal fragment; it passes unless it
// contains a statement terminator or comment marker, which would open the
// synthesized call to injection.
func validFunctionName(text string) bool {
	name, marked := strings.CutPrefix(text, string(FunctionMarker))
	if marked {
		return validSQLName(name)
	}
	if validSQLName(name) {
		return true
	}
	return !strings.ContainsAny(name, ";)") &&
		!strings.Contains(name, "--") &&
		!strings.Contains(name, "/*")
}

// validSQLName parses a dot-separated SQL identifier chain.
func validSQLName(s string) bool {
	if s == "" {
		return false
	}
	for {
		rest, ok := cutSegment(s)
		if !ok {
			return false
		}
		if rest == "" {
			return true
		}
		if rest[0] != '.' {
			return false
		}
		s = rest[1:]
	}
}

// cutSegment consumes one identifier segment and returns the remainder.
func cutSegment(s string) (rest string, ok bool) {
	if s == "" {
		return "", false
	}
	switch s[0] {
	case '[':
		return cutDelimited(s[1:], ']')
	case '"':
		return cutDelimited(s[1:], '"')
	}
	i := 0
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
		case c >= '0' && c <= '9':
			if i == 0 {
				return "", false
			}
		default:
			return s[i:], i > 0
		}
	}
	return "", i > 0
}

// cutDelimited consumes a delimited identifier body up to the closing
// delimiter, honoring the doubled-delimiter escape.
func cutDelimited(s string, close byte) (rest string, ok bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != close {
			n++
			continue
		}
		if i+1 < len(s) && s[i+1] == close {
			n++
			i++
			continue
		}
		return s[i+1:], n > 0
	}
	return "", false
}
