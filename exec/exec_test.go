package exec

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession records the last command and serves canned results.
type fakeSession struct {
	lastCmd Command

	affected int64
	scalar   any
	rows     []any
	err      error
}

func (f *fakeSession) Execute(_ context.Context, cmd Command) (int64, error) {
	f.lastCmd = cmd
	return f.affected, f.err
}

func (f *fakeSession) QueryScalar(_ context.Context, cmd Command) (any, error) {
	f.lastCmd = cmd
	return f.scalar, f.err
}

func (f *fakeSession) QuerySingle(_ context.Context, cmd Command, dest any) error {
	f.lastCmd = cmd
	if f.err != nil {
		return f.err
	}
	if len(f.rows) == 0 {
		return nil
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(f.rows[0]))
	return nil
}

func (f *fakeSession) QueryMany(_ context.Context, cmd Command, dest any) error {
	f.lastCmd = cmd
	if f.err != nil {
		return f.err
	}
	slice := reflect.ValueOf(dest).Elem()
	for _, r := range f.rows {
		slice = reflect.Append(slice, reflect.ValueOf(r))
	}
	reflect.ValueOf(dest).Elem().Set(slice)
	return nil
}

func TestSources(t *testing.T) {
	def := &fakeSession{}
	reporting := &fakeSession{}

	t.Run("single serves every key", func(t *testing.T) {
		src := Single(def)
		assert.Same(t, def, src.Session(""))
		assert.Same(t, def, src.Session("reporting"))
	})

	t.Run("map falls back to the default entry", func(t *testing.T) {
		src := Map{"": def, "reporting": reporting}
		assert.Same(t, reporting, src.Session("reporting"))
		assert.Same(t, def, src.Session(""))
		assert.Same(t, def, src.Session("unknown"))
	})

	t.Run("func adapter", func(t *testing.T) {
		var got string
		src := SourceFunc(func(key string) Session {
			got = key
			return def
		})
		src.Session("reporting")
		assert.Equal(t, "reporting", got)
	})
}

func TestScalar(t *testing.T) {
	ctx := context.Background()
	cmd := Command{Text: "SELECT COUNT(*) FROM users"}

	t.Run("converts driver int64 to narrower types", func(t *testing.T) {
		s := &fakeSession{scalar: int64(42)}
		got, err := Scalar[int](ctx, s, cmd)
		require.NoError(t, err)
		assert.Equal(t, 42, got)

		got32, err := Scalar[uint32](ctx, s, cmd)
		require.NoError(t, err)
		assert.Equal(t, uint32(42), got32)
	})

	t.Run("nil scalar yields the zero value", func(t *testing.T) {
		s := &fakeSession{scalar: nil}
		got, err := Scalar[int64](ctx, s, cmd)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("inconvertible scalar errors", func(t *testing.T) {
		s := &fakeSession{scalar: "not a number"}
		_, err := Scalar[int64](ctx, s, cmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot convert scalar")
	})

	t.Run("session error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		s := &fakeSession{err: boom}
		_, err := Scalar[int64](ctx, s, cmd)
		assert.ErrorIs(t, err, boom)
	})
}

func TestOne(t *testing.T) {
	ctx := context.Background()
	type user struct {
		ID   int
		Name string
	}

	t.Run("first row", func(t *testing.T) {
		s := &fakeSession{rows: []any{user{ID: 1, Name: "ann"}}}
		got, err := One[user](ctx, s, Command{})
		require.NoError(t, err)
		assert.Equal(t, user{ID: 1, Name: "ann"}, got)
	})

	t.Run("no row yields the zero value", func(t *testing.T) {
		s := &fakeSession{}
		got, err := One[user](ctx, s, Command{})
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestMany(t *testing.T) {
	ctx := context.Background()
	type user struct{ ID int }

	t.Run("all rows", func(t *testing.T) {
		s := &fakeSession{rows: []any{user{1}, user{2}, user{3}}}
		got, err := Many[user](ctx, s, Command{})
		require.NoError(t, err)
		assert.Equal(t, []user{{1}, {2}, {3}}, got)
	})

	t.Run("error yields nil slice", func(t *testing.T) {
		s := &fakeSession{err: errors.New("boom")}
		got, err := Many[user](ctx, s, Command{})
		require.Error(t, err)
		assert.Nil(t, got)
	})
}
