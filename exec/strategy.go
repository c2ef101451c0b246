package exec

import (
	"context"
	"fmt"
	"reflect"
)

// Integer constrains scalar results to integral numeric types, any width,
// signed or unsigned.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Scalar runs the command and converts its single-value result to T.
// Drivers commonly return int64 regardless of the declared column width, so
// the value is converted reflectively rather than asserted.
func Scalar[T Integer](ctx context.Context, s Session, cmd Command) (T, error) {
	var zero T
	v, err := s.QueryScalar(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(zero)
	if !rv.Type().ConvertibleTo(rt) {
		return zero, fmt.Errorf("exec: cannot convert scalar %T to %s", v, rt)
	}
	return rv.Convert(rt).Interface().(T), nil
}

// One runs the command and scans the first row into a T. The zero value is
// returned when no row matches.
func One[T any](ctx context.Context, s Session, cmd Command) (T, error) {
	var out T
	err := s.QuerySingle(ctx, cmd, &out)
	return out, err
}

// Many runs the command and scans all rows into a []T.
func Many[T any](ctx context.Context, s Session, cmd Command) ([]T, error) {
	var out []T
	if err := s.QueryMany(ctx, cmd, &out); err != nil {
		return nil, err
	}
	return out, nil
}
