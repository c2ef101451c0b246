package descriptor

// Convention is the case-conversion policy applied when deriving parameter
// names. The zero value means "not specified"; the resolver substitutes the
// project-level default in that case.
type Convention uint8

const (
	// ConventionUnset leaves the decision to the project configuration.
	ConventionUnset Convention = iota
	// ConventionNone keeps parameter names exactly as declared.
	ConventionNone
	// ConventionSnakeCase converts parameter names to snake_case.
	ConventionSnakeCase
)

// String returns the configuration spelling of the convention.
func (c Convention) String() string {
	switch c {
	case ConventionNone:
		return "none"
	case ConventionSnakeCase:
		return "snakeCase"
	default:
		return "unset"
	}
}

// SourceKind identifies a command-source variant.
type SourceKind uint8

const (
	// SourceProcedure targets a stored procedure by name.
	SourceProcedure SourceKind = iota + 1
	// SourceRawSQL carries verbatim SQL text.
	SourceRawSQL
	// SourceFunction targets a callable function, either a schema-qualified
	// name (with a leading '$' marker) or a literal SELECT prefix.
	SourceFunction
)

// String returns a readable name for the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceProcedure:
		return "procedure"
	case SourceRawSQL:
		return "rawSql"
	case SourceFunction:
		return "function"
	default:
		return "none"
	}
}

// Source is one populated command-source variant.
type Source struct {
	Kind SourceKind
	Text string
}

// ResultKind distinguishes the two capability contracts a command can declare.
type ResultKind uint8

const (
	// ResultCommand declares a command-shaped capability.
	ResultCommand ResultKind = iota + 1
	// ResultQuery declares a query-shaped capability.
	ResultQuery
)

// String returns a readable name for the result kind.
func (k ResultKind) String() string {
	switch k {
	case ResultCommand:
		return "command"
	case ResultQuery:
		return "query"
	default:
		return "none"
	}
}

// Result is the declared capability contract of a command: the shape the
// generated handler returns. A nil *Result on the descriptor means the type
// is a plain metadata holder and no handler is generated for it.
type Result struct {
	// Kind reports whether the capability is command- or query-shaped.
	Kind ResultKind
	// Type is the Go type identifier of a single element (e.g. "int64",
	// "User").
	Type string
	// PkgPath is the import path qualifying Type, if any.
	PkgPath string
	// Many marks the result as a homogeneous sequence of Type.
	Many bool
}

// Parameter describes one member of the command's input shape.
type Parameter struct {
	// Source is the member name as declared on the command type.
	Source string
	// Type is the Go type identifier of the member. Empty defaults to "any".
	Type string
	// PkgPath is the import path qualifying Type, if any.
	PkgPath string
	// Override, when set, is used verbatim as the parameter name. No
	// convention or prefix is applied on top of it.
	Override string
	// Ignore excludes the member from the parameter projection entirely.
	Ignore bool
}

// CommandDescriptor is the raw metadata unit describing one data-access
// operation to generate. Descriptors are produced fresh on every pass, either
// through the builder API or by the compiler/load configuration loader, and
// are never mutated once handed to the generator.
//
// The three command-source fields mirror the external annotation schema: the
// input format cannot prevent more than one from being populated, so the
// exclusivity rule is enforced by the analyzer rather than by this type.
type CommandDescriptor struct {
	// Name of the command type. Used for the emitted struct and handler.
	Name string
	// Pos is the source position the descriptor was declared at, when known.
	// Cosmetic only; it never influences generated output.
	Pos string
	// Scopes is the ordered chain of enclosing scope names, outermost first.
	// Generated artifacts nest inside the same chain.
	Scopes []string

	// Procedure, RawSQL and Function are the command-source variants.
	// Exactly one may be non-empty on a valid descriptor.
	Procedure string
	RawSQL    string
	Function  string

	// NonQuery marks the command as returning an affected-row count.
	NonQuery bool
	// Convention is the per-descriptor naming convention override.
	Convention Convention
	// Prefix is the per-descriptor parameter prefix override. A nil pointer
	// defers to the project default; a pointer to "" disables prefixing.
	Prefix *string
	// DataSourceKey selects a named data source when the handler runs.
	DataSourceKey string

	// Parameters is the ordered input shape of the command.
	Parameters []*Parameter
	// Result is the declared capability contract, or nil for none.
	Result *Result
}

// Sources returns the populated command-source variants in declaration order.
func (d *CommandDescriptor) Sources() []Source {
	var srcs []Source
	if d.Procedure != "" {
		srcs = append(srcs, Source{Kind: SourceProcedure, Text: d.Procedure})
	}
	if d.RawSQL != "" {
		srcs = append(srcs, Source{Kind: SourceRawSQL, Text: d.RawSQL})
	}
	if d.Function != "" {
		srcs = append(srcs, Source{Kind: SourceFunction, Text: d.Function})
	}
	return srcs
}
