package gen

// Strategy is the execution shape of a generated handler, selected from the
// command's capability contract and non-query flag.
type Strategy uint8

const (
	// StrategyNone generates no handler; the descriptor has no capability
	// contract and only the projection artifact exists.
	StrategyNone Strategy = iota
	// StrategyExecute runs the command and returns the affected-row count.
	StrategyExecute
	// StrategyScalar runs the command and returns a single integral value.
	StrategyScalar
	// StrategyMany runs the command and returns a sequence of rows.
	StrategyMany
	// StrategyOne runs the command and returns at most one row.
	StrategyOne
)

// String returns the handler-shape name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyExecute:
		return "Execute"
	case StrategyScalar:
		return "ExecuteScalar"
	case StrategyMany:
		return "QueryMany"
	case StrategyOne:
		return "QuerySingleOrDefault"
	default:
		return "None"
	}
}

// integralTypes are the integral numeric result idents, any width, signed or
// unsigned.
var integralTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
}

// Classify selects the execution strategy for a resolved command. The
// non-query flag always wins: even a non-integral declared result (already
// warned about by the analyzer) executes as an affected-row count.
func Classify(c *Command) Strategy {
	switch {
	case c.Result == nil:
		return StrategyNone
	case c.NonQuery:
		return StrategyExecute
	case c.Result.Many:
		return StrategyMany
	case c.Result.PkgPath == "" && integralTypes[c.Result.Type]:
		return StrategyScalar
	default:
		return StrategyOne
	}
}
