package evaluator

import (
	"testing"

	"github.com/vingarcia/vizpipe"
	tt "github.com/vingarcia/vizpipe/internal/testtools"
)

// Test runs the behavior every Expression implementation must share.
func Test(t *testing.T, factory func(expr string) (Expression, error)) {
	flight := map[string]any{
		"Carrier": "AA",
		"Origin":  "JFK",
		"Dest":    "ORD",
		"Month":   float64(1),
	}

	tests := []struct {
		expr               string
		vars               map[string]any
		expectedResult     bool
		expectErrToContain []string
	}{
		{
			expr:           `Carrier == "AA"`,
			vars:           flight,
			expectedResult: true,
		},
		{
			expr:           `Carrier != "AA"`,
			vars:           flight,
			expectedResult: false,
		},
		{
			expr:           `Carrier == "AA" and Dest == "ORD"`,
			vars:           flight,
			expectedResult: true,
		},
		{
			expr:           `Carrier == "UA" or Origin == "JFK"`,
			vars:           flight,
			expectedResult: true,
		},
		{
			expr:           `not (Origin == "JFK")`,
			vars:           flight,
			expectedResult: false,
		},
		{
			expr:           `Month == 1`,
			vars:           flight,
			expectedResult: true,
		},
		{
			expr:               `Airline == "AA"`,
			vars:               flight,
			expectErrToContain: []string{"Airline"},
		},
		{
			expr:               `Month is empty`,
			vars:               flight,
			expectErrToContain: []string{"error evaluating expression 'Month is empty'"},
		},
		{
			expr:           `Delay == 12`,
			vars:           map[string]any{"Carrier": "UA", "Delay": nil},
			expectedResult: false,
		},
		{
			expr:           `Delay != 12`,
			vars:           map[string]any{"Carrier": "UA", "Delay": nil},
			expectedResult: false,
		},
		{
			expr:           `Carrier == "UA" or Delay == 12`,
			vars:           map[string]any{"Carrier": "UA", "Delay": nil},
			expectedResult: false,
		},
		{
			expr:           `Carrier == "UA"`,
			vars:           map[string]any{"Carrier": "UA", "Delay": nil},
			expectedResult: true,
		},
	}

	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			evaluator, err := factory(test.expr)
			tt.AssertNoErr(t, err)

			result, err := evaluator.Evaluate(test.vars)
			if test.expectErrToContain != nil {
				tt.AssertErrContains(t, err, test.expectErrToContain...)
				t.Skip()
			}
			tt.AssertNoErr(t, err)

			tt.AssertEqual(t, result, test.expectedResult)
		})
	}

	t.Run("filtering a table", func(t *testing.T) {
		table, err := vizpipe.NewTable([]string{"Carrier", "Delay"},
			[]vizpipe.Value{vizpipe.Str("AA"), vizpipe.Num(12)},
			[]vizpipe.Value{vizpipe.Str("UA"), vizpipe.Num(3)},
			[]vizpipe.Value{vizpipe.Str("AA"), vizpipe.Num(40)},
		)
		tt.AssertNoErr(t, err)

		expr, err := factory(`Carrier == "AA"`)
		tt.AssertNoErr(t, err)

		filtered, err := Filter(table, expr)
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, filtered.Column("Delay"), []vizpipe.Value{vizpipe.Num(12), vizpipe.Num(40)})
	})

	t.Run("rows with missing cells should not match", func(t *testing.T) {
		table, err := vizpipe.NewTable([]string{"Carrier", "Delay"},
			[]vizpipe.Value{vizpipe.Str("AA"), vizpipe.Num(12)},
			[]vizpipe.Value{vizpipe.Str("UA"), vizpipe.Missing},
			[]vizpipe.Value{vizpipe.Str("DL"), vizpipe.Num(0)},
		)
		tt.AssertNoErr(t, err)

		expr, err := factory(`Delay == 12`)
		tt.AssertNoErr(t, err)

		filtered, err := Filter(table, expr)
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, filtered.Column("Carrier"), []vizpipe.Value{vizpipe.Str("AA")})
	})

	t.Run("filtering errors should be reported with the row", func(t *testing.T) {
		table, err := vizpipe.NewTable([]string{"Carrier"},
			[]vizpipe.Value{vizpipe.Str("AA")},
		)
		tt.AssertNoErr(t, err)

		expr, err := factory(`Airline == "AA"`)
		tt.AssertNoErr(t, err)

		_, err = Filter(table, expr)
		tt.AssertErrCode(t, err, vizpipe.RuntimeErrCode)
		tt.AssertErrContains(t, err, "row = 0")
	})
}
