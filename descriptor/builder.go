package descriptor

// Builder assembles a CommandDescriptor through a fluent API. It is the
// portable replacement for annotation scanning: any host can construct
// descriptors programmatically and hand them to the generator.
//
//	d := descriptor.New("CreateUser").
//		Procedure("create_user").
//		NonQuery().
//		Params(
//			descriptor.Param("UserId", "int"),
//			descriptor.Param("Name", "string"),
//		).
//		Returns(descriptor.ResultCommand, "int").
//		Build()
type Builder struct {
	d CommandDescriptor
}

// New starts a builder for a command type with the given name.
func New(name string) *Builder {
	return &Builder{d: CommandDescriptor{Name: name}}
}

// Scopes sets the containing scope chain, outermost first.
func (b *Builder) Scopes(scopes ...string) *Builder {
	b.d.Scopes = scopes
	return b
}

// Procedure sets the stored-procedure command source.
func (b *Builder) Procedure(name string) *Builder {
	b.d.Procedure = name
	return b
}

// RawSQL sets the raw SQL command source.
func (b *Builder) RawSQL(text string) *Builder {
	b.d.RawSQL = text
	return b
}

// Function sets the callable-function command source.
func (b *Builder) Function(text string) *Builder {
	b.d.Function = text
	return b
}

// NonQuery marks the command as non-query (affected-row count result).
func (b *Builder) NonQuery() *Builder {
	b.d.NonQuery = true
	return b
}

// Convention sets the per-descriptor naming convention.
func (b *Builder) Convention(c Convention) *Builder {
	b.d.Convention = c
	return b
}

// Prefix sets the per-descriptor parameter prefix. Passing "" disables
// prefixing even when the project declares a default.
func (b *Builder) Prefix(p string) *Builder {
	b.d.Prefix = &p
	return b
}

// DataSource sets the named data-source key the handler acquires.
func (b *Builder) DataSource(key string) *Builder {
	b.d.DataSourceKey = key
	return b
}

// Pos records the declaration position for diagnostics.
func (b *Builder) Pos(pos string) *Builder {
	b.d.Pos = pos
	return b
}

// Params appends parameters in declaration order.
func (b *Builder) Params(params ...*ParamBuilder) *Builder {
	for _, p := range params {
		cp := p.p
		b.d.Parameters = append(b.d.Parameters, &cp)
	}
	return b
}

// Returns declares the capability contract with a single-element result type.
func (b *Builder) Returns(kind ResultKind, typ string) *Builder {
	b.d.Result = &Result{Kind: kind, Type: typ}
	return b
}

// ReturnsMany declares a query capability yielding a sequence of typ.
func (b *Builder) ReturnsMany(typ string) *Builder {
	b.d.Result = &Result{Kind: ResultQuery, Type: typ, Many: true}
	return b
}

// ReturnsQual declares the capability contract with a package-qualified
// result type.
func (b *Builder) ReturnsQual(kind ResultKind, pkgPath, typ string, many bool) *Builder {
	b.d.Result = &Result{Kind: kind, Type: typ, PkgPath: pkgPath, Many: many}
	return b
}

// Build returns a copy of the assembled descriptor. The builder can keep
// being used afterwards without affecting the returned value.
func (b *Builder) Build() *CommandDescriptor {
	d := b.d
	d.Scopes = append([]string(nil), b.d.Scopes...)
	d.Parameters = make([]*Parameter, len(b.d.Parameters))
	for i, p := range b.d.Parameters {
		cp := *p
		d.Parameters[i] = &cp
	}
	if b.d.Result != nil {
		r := *b.d.Result
		d.Result = &r
	}
	if b.d.Prefix != nil {
		p := *b.d.Prefix
		d.Prefix = &p
	}
	return &d
}

// ParamBuilder assembles a single Parameter.
type ParamBuilder struct {
	p Parameter
}

// Param starts a parameter with its source member name and Go type.
func Param(source, typ string) *ParamBuilder {
	return &ParamBuilder{p: Parameter{Source: source, Type: typ}}
}

// Qual sets the import path qualifying the parameter type.
func (p *ParamBuilder) Qual(pkgPath string) *ParamBuilder {
	p.p.PkgPath = pkgPath
	return p
}

// Override sets an explicit parameter name, bypassing convention and prefix.
func (p *ParamBuilder) Override(name string) *ParamBuilder {
	p.p.Override = name
	return p
}

// Ignore excludes the parameter from the projection.
func (p *ParamBuilder) Ignore() *ParamBuilder {
	p.p.Ignore = true
	return p
}
