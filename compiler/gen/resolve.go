package gen

import (
	"strings"

	"github.com/syssam/dacgen/descriptor"
)

// Command is a fully-resolved descriptor: per-descriptor overrides merged
// with the project defaults, parameter names resolved, and the populated
// command-source variants collected. Resolution is a pure function of the
// descriptor and the configuration; the input descriptor is never mutated.
type Command struct {
	def *descriptor.CommandDescriptor

	// Name of the command type.
	Name string
	// Scopes is the containing scope chain, outermost first, preserved
	// verbatim from the descriptor.
	Scopes []string
	// Sources holds every populated command-source variant. A valid command
	// has at most one; the analyzer rejects the rest.
	Sources []descriptor.Source
	// NonQuery marks the command as returning an affected-row count.
	NonQuery bool
	// Convention is the resolved naming convention (never unset).
	Convention descriptor.Convention
	// Prefix is the resolved parameter prefix ("" for none).
	Prefix string
	// DataSourceKey selects the data source the handler acquires.
	DataSourceKey string
	// Params holds the resolved parameters in declaration order.
	Params []*Param
	// Result is the declared capability contract, or nil.
	Result *descriptor.Result
	// Passthrough reports that no parameter changes name and none is
	// ignored, so the projection can return the original value unchanged.
	Passthrough bool
}

// Param is one resolved parameter.
type Param struct {
	// Source is the member name on the command type.
	Source string
	// Type is the Go type identifier of the member.
	Type string
	// PkgPath is the import path qualifying Type, if any.
	PkgPath string
	// Name is the final parameter name after override, prefix and
	// convention resolution.
	Name string
	// Ignored excludes the parameter from the projection and the
	// synthesized call list.
	Ignored bool
}

// Source returns the authoritative command source, or false when the
// descriptor has none or more than one variant populated.
func (c *Command) Source() (descriptor.Source, bool) {
	if len(c.Sources) != 1 {
		return descriptor.Source{}, false
	}
	return c.Sources[0], true
}

// Identity returns the stable identity of the command across passes: its
// scope chain and name.
func (c *Command) Identity() string {
	if len(c.Scopes) == 0 {
		return c.Name
	}
	return strings.Join(c.Scopes, ".") + "." + c.Name
}

// Descriptor returns the raw descriptor the command was resolved from.
func (c *Command) Descriptor() *descriptor.CommandDescriptor {
	return c.def
}

// Resolve merges a raw descriptor with the project configuration into a
// Command. Parameter names resolve in priority order: an explicit override
// wins outright; otherwise the prefix is concatenated first and the naming
// convention (descriptor-level, falling back to the project default) applies
// its case conversion on top.
func Resolve(d *descriptor.CommandDescriptor, cfg *Config) *Command {
	c := &Command{
		def:           d,
		Name:          d.Name,
		Scopes:        append([]string(nil), d.Scopes...),
		Sources:       d.Sources(),
		NonQuery:      d.NonQuery,
		DataSourceKey: d.DataSourceKey,
	}
	c.Convention = d.Convention
	if c.Convention == descriptor.ConventionUnset {
		c.Convention = cfg.DefaultConvention
	}
	if c.Convention == descriptor.ConventionUnset {
		c.Convention = descriptor.ConventionNone
	}
	if d.Prefix != nil {
		c.Prefix = *d.Prefix
	} else {
		c.Prefix = cfg.DefaultPrefix
	}
	if d.Result != nil {
		r := *d.Result
		c.Result = &r
	}

	c.Passthrough = true
	for _, p := range d.Parameters {
		rp := &Param{
			Source:  p.Source,
			Type:    p.Type,
			PkgPath: p.PkgPath,
			Ignored: p.Ignore,
		}
		if rp.Type == "" {
			rp.Type = "any"
		}
		switch {
		case p.Override != "":
			rp.Name = p.Override
		default:
			rp.Name = c.Prefix + p.Source
			if c.Convention == descriptor.ConventionSnakeCase {
				rp.Name = snake(rp.Name)
			}
		}
		if rp.Name != rp.Source || rp.Ignored {
			c.Passthrough = false
		}
		c.Params = append(c.Params, rp)
	}
	return c
}

// Projected returns the parameters that take part in the projection and the
// synthesized call list, in declaration order.
func (c *Command) Projected() []*Param {
	var out []*Param
	for _, p := range c.Params {
		if !p.Ignored {
			out = append(out, p)
		}
	}
	return out
}
