package gen

import (
	"path"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dacgen/exec"
)

// ArtifactKind distinguishes the two artifacts generated per descriptor.
type ArtifactKind uint8

const (
	// KindProjection is the parameter-projection artifact.
	KindProjection ArtifactKind = iota
	// KindHandler is the command-handler artifact.
	KindHandler
)

// String returns the artifact-kind name.
func (k ArtifactKind) String() string {
	if k == KindHandler {
		return "Handler"
	}
	return "ParameterProjection"
}

// Artifact is one generated, write-once output. Scopes is copied verbatim
// from the descriptor so the emitted code nests in the same chain the source
// declaration does; the writer walks it outermost-first when opening output
// scopes and closes them structurally in reverse.
type Artifact struct {
	Kind     ArtifactKind
	Scopes   []string
	File     string
	Body     string
	CacheKey string
}

// Path returns the artifact file path relative to the output directory,
// nested under its scope chain.
func (a *Artifact) Path() string {
	return path.Join(append(scopeDirs(a.Scopes), a.File)...)
}

// execPkg is the import path of the runtime package generated code binds to.
const execPkg = "github.com/syssam/dacgen/exec"

// scopeDirs maps a scope chain to output directory segments, outermost
// first.
func scopeDirs(scopes []string) []string {
	dirs := make([]string, len(scopes))
	for i, s := range scopes {
		dirs[i] = strings.ToLower(snake(s))
	}
	return dirs
}

// scopePkg returns the package name for a scope chain: the innermost scope,
// or the configured root package when the chain is empty.
func (g *Generator) scopePkg(scopes []string) string {
	if len(scopes) == 0 {
		return path.Base(g.config.Package)
	}
	last := scopes[len(scopes)-1]
	return strings.ReplaceAll(strings.ToLower(snake(last)), "_", "")
}

// newFile opens a jennifer file for a command's scope chain with the
// standard header comment.
func (g *Generator) newFile(scopes []string) *jen.File {
	f := jen.NewFile(g.scopePkg(scopes))
	f.HeaderComment("Code generated by dacgen. DO NOT EDIT.")
	return f
}

// emitProjection renders the parameter-projection artifact: the command
// struct and its zero-argument Params accessor. When resolution reported a
// pass-through projection the accessor returns the original value unchanged
// instead of building a renamed parameter map.
func (g *Generator) emitProjection(c *Command) (*Artifact, error) {
	f := g.newFile(c.Scopes)
	name := exported(c.Name)
	recv := receiver(name)

	f.Commentf("%s is the input shape of the %s data-access command.", name, c.Identity())
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for _, p := range c.Params {
			tag := p.Name
			if p.Ignored {
				tag = "-"
			}
			group.Id(exported(p.Source)).Add(typeCode(p.Type, p.PkgPath)).
				Tag(map[string]string{"db": tag})
		}
	})

	f.Comment("Params returns the command's parameter set keyed by resolved parameter name.")
	sig := f.Func().Params(jen.Id(recv).Id(name)).Id("Params").Params().Any()
	if c.Passthrough {
		sig.Block(jen.Return(jen.Id(recv)))
	} else {
		dict := jen.Dict{}
		for _, p := range c.Projected() {
			dict[jen.Lit(p.Name)] = jen.Id(recv).Dot(exported(p.Source))
		}
		sig.Block(jen.Return(jen.Map(jen.String()).Any().Values(dict)))
	}

	body, err := render(f)
	if err != nil {
		return nil, NewGenerationError("emit", projectionFile(c), "render projection", err)
	}
	return &Artifact{
		Kind:   KindProjection,
		Scopes: append([]string(nil), c.Scopes...),
		File:   projectionFile(c),
		Body:   body,
	}, nil
}

// emitHandler renders the command-handler artifact: a single exported
// function that acquires a session, projects the parameters, and invokes the
// selected execution strategy with the synthesized command.
func (g *Generator) emitHandler(c *Command, text string, mode exec.Mode, st Strategy) (*Artifact, error) {
	f := g.newFile(c.Scopes)
	name := exported(c.Name)
	recv := receiver(name)
	funcName := name + "Exec"

	modeIdent := "ModeText"
	if mode == exec.ModeProcedure {
		modeIdent = "ModeProcedure"
	}

	f.Commentf("%s runs the %s command with the %s strategy.", funcName, c.Identity(), st)
	f.Func().Id(funcName).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("src").Qual(execPkg, "Source"),
		jen.Id(recv).Id(name),
	).Params(handlerResult(c, st), jen.Error()).Block(
		jen.Id("sess").Op(":=").Id("src").Dot("Session").Call(jen.Lit(c.DataSourceKey)),
		jen.Id("cmd").Op(":=").Qual(execPkg, "Command").Values(jen.Dict{
			jen.Id("Text"): jen.Lit(text),
			jen.Id("Mode"): jen.Qual(execPkg, modeIdent),
			jen.Id("Args"): jen.Id(recv).Dot("Params").Call(),
		}),
		strategyCall(c, st),
	)

	body, err := render(f)
	if err != nil {
		return nil, NewGenerationError("emit", handlerFile(c), "render handler", err)
	}
	return &Artifact{
		Kind:   KindHandler,
		Scopes: append([]string(nil), c.Scopes...),
		File:   handlerFile(c),
		Body:   body,
	}, nil
}

// handlerResult returns the handler's success result type for a strategy.
func handlerResult(c *Command, st Strategy) jen.Code {
	switch st {
	case StrategyExecute:
		return jen.Int64()
	case StrategyMany:
		return jen.Index().Add(typeCode(c.Result.Type, c.Result.PkgPath))
	default:
		return typeCode(c.Result.Type, c.Result.PkgPath)
	}
}

// strategyCall returns the handler's return statement invoking the selected
// execution strategy.
func strategyCall(c *Command, st Strategy) jen.Code {
	args := []jen.Code{jen.Id("ctx"), jen.Id("sess"), jen.Id("cmd")}
	switch st {
	case StrategyExecute:
		return jen.Return(jen.Id("sess").Dot("Execute").Call(jen.Id("ctx"), jen.Id("cmd")))
	case StrategyScalar:
		return jen.Return(jen.Qual(execPkg, "Scalar").Index(typeCode(c.Result.Type, c.Result.PkgPath)).Call(args...))
	case StrategyMany:
		return jen.Return(jen.Qual(execPkg, "Many").Index(typeCode(c.Result.Type, c.Result.PkgPath)).Call(args...))
	default:
		return jen.Return(jen.Qual(execPkg, "One").Index(typeCode(c.Result.Type, c.Result.PkgPath)).Call(args...))
	}
}

// typeCode returns the jennifer code for a type ident, qualified when a
// package path is present. A leading "[]" marks a slice of the base ident.
func typeCode(ident, pkgPath string) jen.Code {
	if elem, ok := strings.CutPrefix(ident, "[]"); ok {
		return jen.Index().Add(typeCode(elem, pkgPath))
	}
	if pkgPath != "" {
		return jen.Qual(pkgPath, ident)
	}
	if ident == "" {
		return jen.Any()
	}
	return jen.Id(ident)
}

// projectionFile returns the projection artifact file name.
func projectionFile(c *Command) string {
	return strings.ToLower(snake(c.Name)) + "_params.go"
}

// handlerFile returns the handler artifact file name.
func handlerFile(c *Command) string {
	return strings.ToLower(snake(c.Name)) + "_exec.go"
}

// render renders a jennifer file to text.
func render(f *jen.File) (string, error) {
	var b strings.Builder
	if err := f.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
