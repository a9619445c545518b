package bexpr

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-bexpr"
	"github.com/hashicorp/go-bexpr/grammar"
	"github.com/samber/lo"
)

type Evaluator struct {
	expr      string
	evaluator *bexpr.Evaluator

	// columns lists the top level variables the expression reads.
	columns []string
}

func New(expr string) (Evaluator, error) {
	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return Evaluator{}, fmt.Errorf("error parsing expression '%s': %w", expr, err)
	}

	ast, err := grammar.Parse("", []byte(expr))
	if err != nil {
		return Evaluator{}, fmt.Errorf("error parsing expression '%s': %w", expr, err)
	}

	var columns []string
	collectColumns(ast.(grammar.Expression), &columns)

	return Evaluator{
		expr:      expr,
		evaluator: evaluator,
		columns:   lo.Uniq(columns),
	}, nil
}

func (e Evaluator) Evaluate(vars map[string]any) (_ bool, err error) {
	for _, col := range e.columns {
		if v, found := vars[col]; found && v == nil {
			return false, nil
		}
	}

	// go-bexpr panics on some operator and type combinations,
	// e.g. `is empty` over a number.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(
				"error evaluating expression '%s': %v, input values: %s",
				e.expr, r, stringify(vars),
			)
		}
	}()

	result, err := e.evaluator.Evaluate(vars)
	if err != nil {
		return false, fmt.Errorf(
			"error evaluating expression '%s': %w, input values: %s",
			e.expr, err, stringify(vars),
		)
	}

	return result, nil
}

// Columns returns the variables referenced by the expression.
func (e Evaluator) Columns() []string {
	return append([]string(nil), e.columns...)
}

func (e Evaluator) String() string {
	return e.expr
}

func collectColumns(expr grammar.Expression, columns *[]string) {
	switch node := expr.(type) {
	case *grammar.UnaryExpression:
		collectColumns(node.Operand, columns)
	case *grammar.BinaryExpression:
		collectColumns(node.Left, columns)
		collectColumns(node.Right, columns)
	case *grammar.MatchExpression:
		if len(node.Selector.Path) > 0 {
			*columns = append(*columns, node.Selector.Path[0])
		}
	case *grammar.CollectionExpression:
		// The inner expression only sees the collection's own elements.
		if len(node.Selector.Path) > 0 {
			*columns = append(*columns, node.Selector.Path[0])
		}
	}
}

func stringify(obj any) string {
	b, err := json.Marshal(obj)
	if err != nil {
		b = []byte(fmt.Sprintf("%+v", obj))
	}

	return string(b)
}
