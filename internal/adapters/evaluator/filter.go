package evaluator

import (
	"github.com/vingarcia/vizpipe"
)

// Filter returns the rows of t for which expr evaluates to true.
//
// Each row is exposed to the expression as a map from column name
// to a string, a float64 or nil for missing cells.
func Filter(t vizpipe.Table, expr Expression) (vizpipe.Table, error) {
	row := 0
	return t.Filter(func(cells map[string]vizpipe.Value) (bool, error) {
		vars := make(map[string]any, len(cells))
		for col, v := range cells {
			vars[col] = v.Any()
		}

		ok, err := expr.Evaluate(vars)
		if err != nil {
			return false, vizpipe.RuntimeErr("error filtering table row", map[string]any{
				"row":   row,
				"error": err,
			})
		}

		row++
		return ok, nil
	})
}
