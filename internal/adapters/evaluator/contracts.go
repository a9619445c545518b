package evaluator

// Expression represents a compiled boolean expression
// that can evaluate to true or false given a set of
// variables, usually the cells of one table row.
//
// A nil variable stands for a missing cell: an expression that
// references one evaluates to false instead of failing.
type Expression interface {
	Evaluate(vars map[string]any) (bool, error)
}
