package gen

import (
	"fmt"

	"github.com/syssam/dacgen/descriptor"
)

// Severity ranks a diagnostic. Only errors suppress artifact emission for
// the offending descriptor; warnings never block.
type Severity uint8

const (
	// SeverityWarning marks a suspicious but non-blocking condition.
	SeverityWarning Severity = iota
	// SeverityError blocks synthesis and emission for the descriptor.
	SeverityError
)

// String returns a readable name for the severity.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Code identifies a diagnostic in the stable, versioned catalog consumed by
// discovery front-ends.
type Code string

const (
	// CodeNonQueryResult: non-query command declares a non-integral result
	// type. Non-query execution returns an affected-row count, so anything
	// else is likely a mistake.
	CodeNonQueryResult Code = "DA1001"
	// CodeMissingContract: a command source is set but the descriptor
	// declares no capability contract to generate a handler against.
	CodeMissingContract Code = "DA1002"
	// CodeConflictingSources: more than one command-source variant is
	// populated; exactly one must be authoritative.
	CodeConflictingSources Code = "DA1003"
	// CodeInternalFailure: an unexpected failure escaped the per-descriptor
	// pipeline and was caught at the isolation boundary.
	CodeInternalFailure Code = "DA1004"
	// CodeInvalidFunction: the function source is not a valid SQL callable
	// name.
	CodeInvalidFunction Code = "DA1005"
)

// Diagnostic is one analyzer finding, attached to the descriptor it
// concerns.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Subject  string
}

// String formats the diagnostic for build-time output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s: %s", d.Severity, d.Code, d.Subject, d.Message)
}

// HasErrors reports whether any diagnostic is error-severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// analyzers are the independent validation rules. All of them run on every
// command; diagnostics are additive, never short-circuited.
var analyzers = []func(*Command) []Diagnostic{
	checkNonQueryResult,
	checkMissingContract,
	checkConflictingSources,
	checkFunctionName,
}

// Analyze runs every validation rule against a resolved command and returns
// the collected diagnostics.
func Analyze(c *Command) []Diagnostic {
	var diags []Diagnostic
	for _, check := range analyzers {
		diags = append(diags, check(c)...)
	}
	return diags
}

// checkNonQueryResult warns when a non-query command declares a result type
// that is not an integral numeric type.
func checkNonQueryResult(c *Command) []Diagnostic {
	if !c.NonQuery || c.Result == nil {
		return nil
	}
	if !c.Result.Many && integralTypes[c.Result.Type] {
		return nil
	}
	typ := c.Result.Type
	if c.Result.Many {
		typ = "[]" + typ
	}
	return []Diagnostic{{
		Code:     CodeNonQueryResult,
		Severity: SeverityWarning,
		Subject:  c.Name,
		Message: fmt.Sprintf("non-query command declares result type %s; "+
			"non-query execution returns an affected-row count", typ),
	}}
}

// checkMissingContract rejects commands with a source but no capability
// contract to generate a handler against.
func checkMissingContract(c *Command) []Diagnostic {
	if len(c.Sources) == 0 || c.Result != nil {
		return nil
	}
	return []Diagnostic{{
		Code:     CodeMissingContract,
		Severity: SeverityError,
		Subject:  c.Name,
		Message:  "command source is set but the descriptor declares no result contract",
	}}
}

// checkConflictingSources rejects descriptors with more than one populated
// command-source variant.
func checkConflictingSources(c *Command) []Diagnostic {
	if len(c.Sources) <= 1 {
		return nil
	}
	kinds := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		kinds[i] = s.Kind.String()
	}
	return []Diagnostic{{
		Code:     CodeConflictingSources,
		Severity: SeverityError,
		Subject:  c.Name,
		Message:  fmt.Sprintf("command sources are mutually exclusive, got %v", kinds),
	}}
}

// checkFunctionName validates the function source against the SQL callable
// name grammar. The rule runs on the function variant regardless of other
// findings so conflicting-source descriptors still surface a bad name.
func checkFunctionName(c *Command) []Diagnostic {
	for _, s := range c.Sources {
		if s.Kind != descriptor.SourceFunction {
			continue
		}
		if validFunctionName(s.Text) {
			continue
		}
		return []Diagnostic{{
			Code:     CodeInvalidFunction,
			Severity: SeverityError,
			Subject:  c.Name,
			Message:  fmt.Sprintf("function source %q is not a valid SQL callable name", s.Text),
		}}
	}
	return nil
}
