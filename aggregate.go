package vizpipe

import (
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
	"github.com/samber/lo"
)

// GroupKey lists the columns whose value combinations partition a table.
type GroupKey []string

// Operation is the reduction applied to each partition.
type Operation string

const (
	OpSum      Operation = "sum"
	OpMean     Operation = "mean"
	OpCount    Operation = "count"
	OpMin      Operation = "min"
	OpMax      Operation = "max"
	OpIdentity Operation = "identity"
)

// Operations lists every supported Operation.
var Operations = []Operation{OpSum, OpMean, OpCount, OpMin, OpMax, OpIdentity}

// numeric reports whether the operation needs a numeric value column.
func (op Operation) numeric() bool {
	return op != OpCount
}

type AggregationSpec struct {
	ValueColumn string
	Operation   Operation
}

func (s AggregationSpec) String() string {
	return string(s.Operation) + "(" + s.ValueColumn + ")"
}

type group struct {
	key  []Value
	rows []int
}

// Aggregate partitions t by the values of the key columns and reduces
// spec.ValueColumn inside each partition.
//
// Groups come out in the order their key tuple first appears in t.
// Missing key values form a group of their own. The resulting table
// holds the key columns followed by the value column. With an empty
// key the whole table is reduced into a single row.
//
// OpIdentity requires an empty key and returns t unchanged once the
// value column has been validated.
func Aggregate(t Table, key GroupKey, spec AggregationSpec) (Table, error) {
	if !lo.Contains(Operations, spec.Operation) {
		return Table{}, ArgumentErr("unknown aggregation operation", map[string]any{
			"operation": spec.Operation,
			"supported": Operations,
		})
	}

	if spec.Operation == OpIdentity && len(key) > 0 {
		return Table{}, ArgumentErr("identity aggregation cannot be grouped", map[string]any{
			"groupKey": key,
		})
	}

	if dups := lo.FindDuplicates(key); len(dups) > 0 {
		return Table{}, ArgumentErr("group key repeats columns", map[string]any{
			"columns": dups,
		})
	}

	if lo.Contains(key, spec.ValueColumn) {
		return Table{}, ArgumentErr("value column cannot be part of the group key", map[string]any{
			"valueColumn": spec.ValueColumn,
		})
	}

	missing := lo.Filter(append(append([]string{}, key...), spec.ValueColumn), func(col string, _ int) bool {
		return !t.HasColumn(col)
	})
	if len(missing) > 0 {
		return Table{}, SchemaErr("columns not found in table", map[string]any{
			"missingColumns": missing,
			"tableColumns":   t.Columns(),
		})
	}

	if spec.Operation.numeric() && !t.IsNumeric(spec.ValueColumn) {
		return Table{}, TypeErr("aggregation requires a numeric value column", map[string]any{
			"valueColumn": spec.ValueColumn,
			"operation":   spec.Operation,
		})
	}

	if spec.Operation == OpIdentity {
		return t, nil
	}

	groups := partition(t, key)

	columns := append(append([]string{}, key...), spec.ValueColumn)
	rows := make([][]Value, 0, len(groups))
	for _, g := range groups {
		row := append(append([]Value{}, g.key...), reduce(t, g.rows, spec))
		rows = append(rows, row)
	}

	return NewTable(columns, rows...)
}

// partition groups the row indexes of t by key tuple,
// keeping first-appearance order.
func partition(t Table, key GroupKey) []group {
	if len(key) == 0 {
		all := make([]int, t.Len())
		for i := range all {
			all[i] = i
		}
		return []group{{rows: all}}
	}

	byKey := map[string]int{}
	var groups []group
	for i := 0; i < t.Len(); i++ {
		tuple := make([]Value, len(key))
		encoded := make([]string, len(key))
		for j, col := range key {
			tuple[j] = t.At(i, col)
			encoded[j] = tuple[j].key()
		}

		k := strings.Join(encoded, ",")
		idx, seen := byKey[k]
		if !seen {
			idx = len(groups)
			byKey[k] = idx
			groups = append(groups, group{key: tuple})
		}
		groups[idx].rows = append(groups[idx].rows, i)
	}

	return groups
}

func reduce(t Table, rows []int, spec AggregationSpec) Value {
	if spec.Operation == OpCount {
		return Num(float64(len(rows)))
	}

	xs := make([]float64, 0, len(rows))
	for _, i := range rows {
		if f, ok := t.At(i, spec.ValueColumn).Float(); ok {
			xs = append(xs, f)
		}
	}

	switch spec.Operation {
	case OpSum:
		return Num(vec.Sum(xs))
	case OpMean:
		if len(xs) == 0 {
			return Missing
		}
		return Num(vec.Sum(xs) / float64(len(xs)))
	case OpMin, OpMax:
		if len(xs) == 0 {
			return Missing
		}
		low, high := stats.Bounds(xs)
		if spec.Operation == OpMin {
			return Num(low)
		}
		return Num(high)
	}

	return Missing
}
