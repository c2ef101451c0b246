// Package load reads declarative dacgen configuration files: project-level
// defaults plus the command descriptors to generate. It is the file-based
// counterpart of the descriptor builder API and performs shape-only
// decoding; semantic rules (source exclusivity, identifier grammar) stay in
// the analyzer so a file with two command-source keys loads fine and is
// diagnosed at generation time.
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/dacgen/compiler/gen"
	"github.com/syssam/dacgen/descriptor"
)

// File is the top-level document of a dacgen configuration file.
type File struct {
	// Package is the import path of the generated root package.
	Package string `yaml:"package"`
	// Target is the output directory.
	Target string `yaml:"target"`
	// Defaults holds the project-level defaults consulted when a command
	// leaves the corresponding field unset.
	Defaults Defaults `yaml:"defaults"`
	// Commands are the descriptors to generate.
	Commands []*Command `yaml:"commands"`
}

// Defaults mirrors the project-level configuration of the generator.
type Defaults struct {
	NamingConvention string `yaml:"namingConvention"`
	ParameterPrefix  string `yaml:"parameterPrefix"`
	Workers          int    `yaml:"workers"`
}

// Command is the file form of one command descriptor, mirroring the
// external annotation schema.
type Command struct {
	Name   string   `yaml:"name"`
	Scopes []string `yaml:"scopes"`

	Procedure string `yaml:"procedure"`
	RawSQL    string `yaml:"rawSql"`
	Function  string `yaml:"function"`

	NonQuery         bool    `yaml:"nonQuery"`
	NamingConvention string  `yaml:"namingConvention"`
	ParameterPrefix  *string `yaml:"parameterPrefix"`
	DataSourceKey    string  `yaml:"dataSourceKey"`

	Params  []*Param `yaml:"params"`
	Returns *Result  `yaml:"returns"`
}

// Param is the file form of one parameter.
type Param struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Package      string `yaml:"package"`
	OverrideName string `yaml:"overrideName"`
	Ignore       bool   `yaml:"ignore"`
}

// Result is the file form of the capability contract.
type Result struct {
	Kind    string `yaml:"kind"`
	Type    string `yaml:"type"`
	Package string `yaml:"package"`
	Many    bool   `yaml:"many"`
}

// Read loads and parses a configuration file.
func Read(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	f, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("load: parse %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a configuration document.
func Parse(buf []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(buf, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Config converts the file's project-level settings into a generator
// configuration.
func (f *File) Config() (*gen.Config, error) {
	conv, err := parseConvention(f.Defaults.NamingConvention)
	if err != nil {
		return nil, err
	}
	return &gen.Config{
		Package:           f.Package,
		Target:            f.Target,
		DefaultConvention: conv,
		DefaultPrefix:     f.Defaults.ParameterPrefix,
		Workers:           f.Defaults.Workers,
	}, nil
}

// Descriptors converts the file's commands into raw descriptors for the
// generator.
func (f *File) Descriptors() ([]*descriptor.CommandDescriptor, error) {
	descs := make([]*descriptor.CommandDescriptor, 0, len(f.Commands))
	for _, c := range f.Commands {
		if c.Name == "" {
			return nil, gen.NewDescriptorError("", "", "command is missing a name", nil)
		}
		conv, err := parseConvention(c.NamingConvention)
		if err != nil {
			return nil, gen.NewDescriptorError(c.Name, "", "invalid naming convention", err)
		}
		d := &descriptor.CommandDescriptor{
			Name:          c.Name,
			Scopes:        c.Scopes,
			Procedure:     c.Procedure,
			RawSQL:        c.RawSQL,
			Function:      c.Function,
			NonQuery:      c.NonQuery,
			Convention:    conv,
			Prefix:        c.ParameterPrefix,
			DataSourceKey: c.DataSourceKey,
		}
		for i, p := range c.Params {
			if p.Name == "" {
				return nil, gen.NewDescriptorError(c.Name, fmt.Sprintf("#%d", i+1), "parameter is missing a name", nil)
			}
			d.Parameters = append(d.Parameters, &descriptor.Parameter{
				Source:   p.Name,
				Type:     p.Type,
				PkgPath:  p.Package,
				Override: p.OverrideName,
				Ignore:   p.Ignore,
			})
		}
		if r := c.Returns; r != nil {
			kind, err := parseResultKind(r.Kind)
			if err != nil {
				return nil, gen.NewDescriptorError(c.Name, "", "invalid result contract", err)
			}
			d.Result = &descriptor.Result{
				Kind:    kind,
				Type:    r.Type,
				PkgPath: r.Package,
				Many:    r.Many,
			}
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// parseConvention maps the configuration spelling of a naming convention.
func parseConvention(s string) (descriptor.Convention, error) {
	switch s {
	case "":
		return descriptor.ConventionUnset, nil
	case "none":
		return descriptor.ConventionNone, nil
	case "snakeCase":
		return descriptor.ConventionSnakeCase, nil
	default:
		return 0, fmt.Errorf("unknown naming convention %q", s)
	}
}

// parseResultKind maps the configuration spelling of a capability contract.
func parseResultKind(s string) (descriptor.ResultKind, error) {
	switch s {
	case "command":
		return descriptor.ResultCommand, nil
	case "query":
		return descriptor.ResultQuery, nil
	default:
		return 0, fmt.Errorf("unknown result kind %q", s)
	}
}
