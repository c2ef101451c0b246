package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dacgen/compiler/gen"
	"github.com/syssam/dacgen/descriptor"
)

const sampleConfig = `
package: example.com/app/dac
target: ./internal/dac
defaults:
  namingConvention: snakeCase
  parameterPrefix: p_
  workers: 4
commands:
  - name: CreateUser
    procedure: create_user
    nonQuery: true
    params:
      - name: UserId
        type: int
      - name: When
        type: Time
        package: time
      - name: Trace
        type: string
        ignore: true
    returns:
      kind: command
      type: int
  - name: GetAllUsers
    scopes: [Billing, Reports]
    function: $app.get_all
    namingConvention: none
    parameterPrefix: ""
    dataSourceKey: reporting
    params:
      - name: Limit
        type: int
        overrideName: max_rows
    returns:
      kind: query
      type: User
      many: true
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "example.com/app/dac", f.Package)
	assert.Equal(t, "./internal/dac", f.Target)
	assert.Equal(t, "snakeCase", f.Defaults.NamingConvention)
	assert.Equal(t, "p_", f.Defaults.ParameterPrefix)
	assert.Equal(t, 4, f.Defaults.Workers)
	require.Len(t, f.Commands, 2)
}

func TestConfig(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	cfg, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/dac", cfg.Package)
	assert.Equal(t, descriptor.ConventionSnakeCase, cfg.DefaultConvention)
	assert.Equal(t, "p_", cfg.DefaultPrefix)
	assert.Equal(t, 4, cfg.Workers)
}

func TestDescriptors(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	descs, err := f.Descriptors()
	require.NoError(t, err)
	require.Len(t, descs, 2)

	create := descs[0]
	assert.Equal(t, "CreateUser", create.Name)
	assert.Equal(t, "create_user", create.Procedure)
	assert.True(t, create.NonQuery)
	assert.Equal(t, descriptor.ConventionUnset, create.Convention)
	assert.Nil(t, create.Prefix, "absent prefix defers to the project default")
	require.Len(t, create.Parameters, 3)
	assert.Equal(t, &descriptor.Parameter{Source: "When", Type: "Time", PkgPath: "time"}, create.Parameters[1])
	assert.True(t, create.Parameters[2].Ignore)
	assert.Equal(t, &descriptor.Result{Kind: descriptor.ResultCommand, Type: "int"}, create.Result)

	getAll := descs[1]
	assert.Equal(t, []string{"Billing", "Reports"}, getAll.Scopes)
	assert.Equal(t, "$app.get_all", getAll.Function)
	assert.Equal(t, descriptor.ConventionNone, getAll.Convention)
	require.NotNil(t, getAll.Prefix, "explicit empty prefix disables the project default")
	assert.Equal(t, "", *getAll.Prefix)
	assert.Equal(t, "reporting", getAll.DataSourceKey)
	assert.Equal(t, "max_rows", getAll.Parameters[0].Override)
	assert.Equal(t, &descriptor.Result{Kind: descriptor.ResultQuery, Type: "User", Many: true}, getAll.Result)
}

func TestDescriptorsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing command name",
			doc: `
commands:
  - procedure: create_user
`,
		},
		{
			name: "unknown naming convention",
			doc: `
commands:
  - name: Cmd
    namingConvention: kebab
`,
		},
		{
			name: "unknown result kind",
			doc: `
commands:
  - name: Cmd
    returns:
      kind: batch
      type: int
`,
		},
		{
			name: "missing parameter name",
			doc: `
commands:
  - name: Cmd
    params:
      - type: int
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, err = f.Descriptors()
			require.Error(t, err)
			assert.True(t, gen.IsDescriptorError(err))
		})
	}
}

func TestDescriptorsParamErrorNamesPosition(t *testing.T) {
	doc := `
commands:
  - name: Cmd
    params:
      - name: UserId
        type: int
      - type: int
`
	f, err := Parse([]byte(doc))
	require.NoError(t, err)
	_, err = f.Descriptors()
	require.Error(t, err)

	var derr *gen.DescriptorError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Cmd", derr.Descriptor)
	assert.Equal(t, "#2", derr.Param)
	assert.Contains(t, err.Error(), "on Cmd parameter #2")
}

func TestConfigUnknownConvention(t *testing.T) {
	f, err := Parse([]byte("defaults:\n  namingConvention: kebab\n"))
	require.NoError(t, err)
	_, err = f.Config()
	require.Error(t, err)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dacgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	f, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, f.Commands, 2)

	_, err = Read(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("commands: [\n"))
	require.Error(t, err)
}
