package exec

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"
)

// DB is a database/sql-backed Session. Command text uses @name parameter
// markers; DB rewrites them to positional placeholders and resolves values
// from the command's Args by resolved parameter name.
type DB struct {
	db          *sql.DB
	placeholder func(i int) string
}

// NewDB wraps an opened *sql.DB. The default placeholder is "?"; use
// WithPlaceholder for dialects with positional markers (e.g. $1).
func NewDB(db *sql.DB) *DB {
	return &DB{db: db, placeholder: func(int) string { return "?" }}
}

// WithPlaceholder sets the positional placeholder renderer. i is 1-based.
func (d *DB) WithPlaceholder(f func(i int) string) *DB {
	if f != nil {
		d.placeholder = f
	}
	return d
}

// Execute implements Session.
func (d *DB) Execute(ctx context.Context, cmd Command) (int64, error) {
	text, args, err := d.bind(cmd)
	if err != nil {
		return 0, err
	}
	res, err := d.db.ExecContext(ctx, text, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// QueryScalar implements Session.
func (d *DB) QueryScalar(ctx context.Context, cmd Command) (any, error) {
	text, args, err := d.bind(cmd)
	if err != nil {
		return nil, err
	}
	var v any
	if err := d.db.QueryRowContext(ctx, text, args...).Scan(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// QuerySingle implements Session. dest keeps its zero value when no row
// matches.
func (d *DB) QuerySingle(ctx context.Context, cmd Command, dest any) error {
	text, args, err := d.bind(cmd)
	if err != nil {
		return err
	}
	rows, err := d.db.QueryContext(ctx, text, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		return rows.Err()
	}
	if err := scanRow(rows, dest); err != nil {
		return err
	}
	return rows.Err()
}

// QueryMany implements Session. dest must be a pointer to a slice.
func (d *DB) QueryMany(ctx context.Context, cmd Command, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("exec: QueryMany dest must be a pointer to a slice, got %T", dest)
	}
	text, args, err := d.bind(cmd)
	if err != nil {
		return err
	}
	rows, err := d.db.QueryContext(ctx, text, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	slice := dv.Elem()
	elemType := slice.Type().Elem()
	for rows.Next() {
		elem := reflect.New(elemType)
		if err := scanRow(rows, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	dv.Elem().Set(slice)
	return rows.Err()
}

// marker matches @name parameter markers in command text.
var marker = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)

// bind rewrites the command into driver-ready text and positional arguments.
// Procedure mode synthesizes a CALL statement with one placeholder per
// argument; text mode rewrites each @name occurrence in order.
func (d *DB) bind(cmd Command) (string, []any, error) {
	if cmd.Mode == ModeProcedure {
		names := argNames(cmd.Args)
		holders := make([]string, len(names))
		args := make([]any, len(names))
		for i, n := range names {
			holders[i] = d.placeholder(i + 1)
			v, err := argValue(cmd.Args, n)
			if err != nil {
				return "", nil, err
			}
			args[i] = v
		}
		return fmt.Sprintf("CALL %s(%s)", cmd.Text, strings.Join(holders, ", ")), args, nil
	}
	var args []any
	var bindErr error
	i := 0
	text := marker.ReplaceAllStringFunc(cmd.Text, func(m string) string {
		i++
		v, err := argValue(cmd.Args, m[1:])
		if err != nil && bindErr == nil {
			bindErr = err
		}
		args = append(args, v)
		return d.placeholder(i)
	})
	if bindErr != nil {
		return "", nil, bindErr
	}
	return text, args, nil
}

// argNames returns the bindable argument names of a parameter set in a
// deterministic order: struct field order for pass-through projections,
// sorted keys for maps.
func argNames(args any) []string {
	switch m := args.(type) {
	case nil:
		return nil
	case map[string]any:
		names := make([]string, 0, len(m))
		for k := range m {
			names = append(names, k)
		}
		sort.Strings(names)
		return names
	}
	rv := reflect.Indirect(reflect.ValueOf(args))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			names = append(names, tag)
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

// argValue resolves one named argument from a map or struct parameter set.
// Struct fields match by db tag, exact name, or case-insensitive name with
// underscores ignored, so snake_cased markers bind pass-through projections.
func argValue(args any, name string) (any, error) {
	switch m := args.(type) {
	case nil:
		return nil, fmt.Errorf("exec: no arguments to bind parameter %q", name)
	case map[string]any:
		if v, ok := m[name]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("exec: missing argument %q", name)
	}
	rv := reflect.Indirect(reflect.ValueOf(args))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("exec: cannot bind parameter %q from %T", name, args)
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("db"); ok && tag == name {
			return rv.Field(i).Interface(), nil
		}
		if f.Name == name || foldName(f.Name) == foldName(name) {
			return rv.Field(i).Interface(), nil
		}
	}
	return nil, fmt.Errorf("exec: missing argument %q on %s", name, rt)
}

// foldName lowercases a name and drops underscores, so UserId, UserID and
// user_id all compare equal.
func foldName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// scanRow scans the current row into dest. Struct destinations scan by
// column-to-field name folding; anything else scans the first column.
func scanRow(rows *sql.Rows, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer {
		return fmt.Errorf("exec: scan dest must be a pointer, got %T", dest)
	}
	elem := dv.Elem()
	if elem.Kind() != reflect.Struct || elem.Type() == reflect.TypeOf(time.Time{}) {
		return rows.Scan(dest)
	}
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	targets := make([]any, len(cols))
	for i, col := range cols {
		if f, ok := fieldByColumn(elem, col); ok {
			targets[i] = f.Addr().Interface()
			continue
		}
		targets[i] = new(any)
	}
	return rows.Scan(targets...)
}

// fieldByColumn finds the addressable struct field matching a result column.
func fieldByColumn(v reflect.Value, col string) (reflect.Value, bool) {
	rt := v.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("db"); ok && tag == col {
			return v.Field(i), true
		}
		if foldName(f.Name) == foldName(col) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
