package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dacgen/descriptor"
	"github.com/syssam/dacgen/exec"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := NewGenerator(&Config{Package: "example.com/app/dac"})
	require.NoError(t, err)
	return g
}

func TestEmitProjection(t *testing.T) {
	g := testGenerator(t)

	t.Run("renamed parameters project into a map", func(t *testing.T) {
		d := descriptor.New("CreateUser").
			Convention(descriptor.ConventionSnakeCase).
			Params(
				descriptor.Param("UserId", "int"),
				descriptor.Param("FullName", "string"),
			).
			Build()
		a, err := g.emitProjection(Resolve(d, g.config))
		require.NoError(t, err)
		assert.Equal(t, KindProjection, a.Kind)
		assert.Equal(t, "create_user_params.go", a.File)
		assert.Contains(t, a.Body, "Code generated by dacgen. DO NOT EDIT.")
		assert.Contains(t, a.Body, "package dac")
		assert.Contains(t, a.Body, "type CreateUser struct")
		assert.Contains(t, a.Body, "UserId int `db:\"user_id\"`")
		assert.Contains(t, a.Body, "FullName string `db:\"full_name\"`")
		assert.Contains(t, a.Body, "func (cu CreateUser) Params() any")
		assert.Contains(t, a.Body, `"user_id": cu.UserId`)
		assert.Contains(t, a.Body, `"full_name": cu.FullName`)
	})

	t.Run("pass-through projection returns the receiver", func(t *testing.T) {
		d := descriptor.New("CreateUser").
			Params(descriptor.Param("UserId", "int")).
			Build()
		a, err := g.emitProjection(Resolve(d, g.config))
		require.NoError(t, err)
		assert.Contains(t, a.Body, "return cu")
		assert.NotContains(t, a.Body, "map[string]any")
	})

	t.Run("ignored parameter stays on the struct but out of the map", func(t *testing.T) {
		d := descriptor.New("CreateUser").
			Params(
				descriptor.Param("UserId", "int"),
				descriptor.Param("Trace", "string").Ignore(),
			).
			Build()
		a, err := g.emitProjection(Resolve(d, g.config))
		require.NoError(t, err)
		assert.Contains(t, a.Body, "Trace string `db:\"-\"`")
		assert.NotContains(t, a.Body, `"Trace"`)
	})

	t.Run("qualified parameter type imports its package", func(t *testing.T) {
		d := descriptor.New("Archive").
			Params(descriptor.Param("Before", "Time").Qual("time")).
			Build()
		a, err := g.emitProjection(Resolve(d, g.config))
		require.NoError(t, err)
		assert.Contains(t, a.Body, `"time"`)
		assert.Contains(t, a.Body, "time.Time")
	})
}

func TestEmitHandler(t *testing.T) {
	g := testGenerator(t)

	emit := func(t *testing.T, d *descriptor.CommandDescriptor) *Artifact {
		t.Helper()
		c := Resolve(d, g.config)
		src, ok := c.Source()
		require.True(t, ok)
		st := Classify(c)
		require.NotEqual(t, StrategyNone, st)
		text, mode := Synthesize(src, c.Params)
		a, err := g.emitHandler(c, text, mode, st)
		require.NoError(t, err)
		return a
	}

	t.Run("execute strategy", func(t *testing.T) {
		d := descriptor.New("CreateUser").
			Procedure("create_user").
			NonQuery().
			Returns(descriptor.ResultCommand, "int").
			Params(descriptor.Param("Name", "string")).
			Build()
		a := emit(t, d)
		assert.Equal(t, KindHandler, a.Kind)
		assert.Equal(t, "create_user_exec.go", a.File)
		assert.Contains(t, a.Body, "func CreateUserExec(ctx context.Context, src exec.Source, cu CreateUser) (int64, error)")
		assert.Contains(t, a.Body, `sess := src.Session("")`)
		assert.Contains(t, a.Body, `Text: "create_user"`)
		assert.Contains(t, a.Body, "Mode: exec.ModeProcedure")
		assert.Contains(t, a.Body, "Args: cu.Params()")
		assert.Contains(t, a.Body, "return sess.Execute(ctx, cmd)")
	})

	t.Run("scalar strategy", func(t *testing.T) {
		d := descriptor.New("CountUsers").
			RawSQL("SELECT COUNT(*) FROM users").
			Returns(descriptor.ResultQuery, "int64").
			Build()
		a := emit(t, d)
		assert.Contains(t, a.Body, "(int64, error)")
		assert.Contains(t, a.Body, "return exec.Scalar[int64](ctx, sess, cmd)")
		assert.Contains(t, a.Body, "Mode: exec.ModeText")
	})

	t.Run("many strategy with synthesized function call", func(t *testing.T) {
		d := descriptor.New("GetAllUsers").
			Function("$app.get_all").
			ReturnsMany("User").
			Convention(descriptor.ConventionSnakeCase).
			Params(
				descriptor.Param("Limit", "int"),
				descriptor.Param("Offset", "int"),
			).
			Build()
		a := emit(t, d)
		assert.Contains(t, a.Body, "([]User, error)")
		assert.Contains(t, a.Body, "return exec.Many[User](ctx, sess, cmd)")
		assert.Contains(t, a.Body, `Text: "SELECT * FROM app.get_all(@limit, @offset)"`)
	})

	t.Run("single strategy with qualified result type", func(t *testing.T) {
		d := descriptor.New("GetUser").
			Procedure("get_user").
			ReturnsQual(descriptor.ResultQuery, "example.com/app/model", "User", false).
			Build()
		a := emit(t, d)
		assert.Contains(t, a.Body, "(model.User, error)")
		assert.Contains(t, a.Body, "return exec.One[model.User](ctx, sess, cmd)")
	})

	t.Run("data-source key is bound into the session call", func(t *testing.T) {
		d := descriptor.New("GetUser").
			Procedure("get_user").
			DataSource("reporting").
			Returns(descriptor.ResultQuery, "User").
			Build()
		a := emit(t, d)
		assert.Contains(t, a.Body, `sess := src.Session("reporting")`)
	})
}

func TestEmitDeterminism(t *testing.T) {
	g := testGenerator(t)
	d := descriptor.New("GetAllUsers").
		Function("$app.get_all").
		ReturnsMany("User").
		Convention(descriptor.ConventionSnakeCase).
		Params(
			descriptor.Param("Limit", "int"),
			descriptor.Param("Offset", "int"),
			descriptor.Param("Filter", "string"),
		).
		Build()

	first, err := g.emitProjection(Resolve(d, g.config))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := g.emitProjection(Resolve(d, g.config))
		require.NoError(t, err)
		assert.Equal(t, first.Body, again.Body)
	}
}

func TestScopeNesting(t *testing.T) {
	g := testGenerator(t)

	t.Run("artifact path nests under the scope chain", func(t *testing.T) {
		d := descriptor.New("GetTotals").
			Scopes("Billing", "Reports").
			Build()
		c := Resolve(d, g.config)
		a, err := g.emitProjection(c)
		require.NoError(t, err)
		assert.Equal(t, []string{"Billing", "Reports"}, a.Scopes)
		assert.Equal(t, "billing/reports/get_totals_params.go", a.Path())
		assert.Contains(t, a.Body, "package reports")
	})

	t.Run("empty chain emits into the root package", func(t *testing.T) {
		d := descriptor.New("GetTotals").Build()
		a, err := g.emitProjection(Resolve(d, g.config))
		require.NoError(t, err)
		assert.Equal(t, "get_totals_params.go", a.Path())
		assert.Contains(t, a.Body, "package dac")
	})

	t.Run("multi-word scope flattens to a directory segment", func(t *testing.T) {
		dirs := scopeDirs([]string{"UserReports"})
		assert.Equal(t, []string{"user_reports"}, dirs)
		assert.Equal(t, "userreports", g.scopePkg([]string{"UserReports"}))
	})
}

func TestTypeCode(t *testing.T) {
	g := testGenerator(t)
	d := descriptor.New("ListTags").
		Params(descriptor.Param("Tags", "[]string")).
		Build()
	a, err := g.emitProjection(Resolve(d, g.config))
	require.NoError(t, err)
	assert.Contains(t, a.Body, "Tags []string")
	assert.False(t, strings.Contains(a.Body, "[][]string"))
}

func TestSynthesizeModeMatchesEmit(t *testing.T) {
	_, mode := Synthesize(descriptor.Source{Kind: descriptor.SourceProcedure, Text: "p"}, nil)
	assert.Equal(t, exec.ModeProcedure, mode)
	_, mode = Synthesize(descriptor.Source{Kind: descriptor.SourceRawSQL, Text: "SELECT 1"}, nil)
	assert.Equal(t, exec.ModeText, mode)
}
