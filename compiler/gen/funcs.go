package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// snake converts a name to snake_case (UserId -> user_id, HTTPCode ->
// http_code).
func snake(s string) string {
	return inflect.Underscore(s)
}

// exported converts a name to an exported Go identifier (create_user ->
// CreateUser). Names that are already exported pass through unchanged.
func exported(s string) string {
	if s == "" {
		return s
	}
	if !strings.ContainsAny(s, "_- ") && unicode.IsUpper(rune(s[0])) {
		return s
	}
	return inflect.Camelize(strings.ReplaceAll(s, "-", "_"))
}

// receiver returns a short receiver identifier for a type name: the
// lowercased initials of its camel-case humps ("CreateUser" -> "cu").
func receiver(name string) string {
	name = strings.TrimLeft(name, "[]*0123456789")
	var b strings.Builder
	for i, r := range name {
		if i == 0 || unicode.IsUpper(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() == 0 {
		return "v"
	}
	return b.String()
}
