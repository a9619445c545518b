package vizpipe_test

import (
	"testing"

	"github.com/vingarcia/vizpipe"
	tt "github.com/vingarcia/vizpipe/internal/testtools"
)

var (
	s = vizpipe.Str
	n = vizpipe.Num
)

func crimesTable(t *testing.T) vizpipe.Table {
	return mustTable(t, []string{"City", "Year", "Crimes"},
		[]vizpipe.Value{s("Chicago"), n(2019), n(1000)},
		[]vizpipe.Value{s("Boston"), n(2019), n(800)},
		[]vizpipe.Value{s("Chicago"), n(2020), n(1200)},
		[]vizpipe.Value{s("Austin"), n(2020), n(300)},
		[]vizpipe.Value{s("Boston"), n(2020), vizpipe.Missing},
	)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		desc         string
		key          vizpipe.GroupKey
		spec         vizpipe.AggregationSpec
		expectedCols []string
		expectedRows [][]vizpipe.Value
	}{
		{
			desc:         "sum per city in first seen order",
			key:          vizpipe.GroupKey{"City"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpSum},
			expectedCols: []string{"City", "Crimes"},
			expectedRows: [][]vizpipe.Value{
				{s("Chicago"), n(2200)},
				{s("Boston"), n(800)},
				{s("Austin"), n(300)},
			},
		},
		{
			desc:         "mean ignores missing values",
			key:          vizpipe.GroupKey{"City"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpMean},
			expectedCols: []string{"City", "Crimes"},
			expectedRows: [][]vizpipe.Value{
				{s("Chicago"), n(1100)},
				{s("Boston"), n(800)},
				{s("Austin"), n(300)},
			},
		},
		{
			desc:         "count includes rows with missing values",
			key:          vizpipe.GroupKey{"City"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpCount},
			expectedCols: []string{"City", "Crimes"},
			expectedRows: [][]vizpipe.Value{
				{s("Chicago"), n(2)},
				{s("Boston"), n(2)},
				{s("Austin"), n(1)},
			},
		},
		{
			desc:         "multi column keys",
			key:          vizpipe.GroupKey{"Year", "City"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpSum},
			expectedCols: []string{"Year", "City", "Crimes"},
			expectedRows: [][]vizpipe.Value{
				{n(2019), s("Chicago"), n(1000)},
				{n(2019), s("Boston"), n(800)},
				{n(2020), s("Chicago"), n(1200)},
				{n(2020), s("Austin"), n(300)},
				{n(2020), s("Boston"), n(0)},
			},
		},
		{
			desc:         "min and max skip missing values",
			key:          vizpipe.GroupKey{"Year"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpMax},
			expectedCols: []string{"Year", "Crimes"},
			expectedRows: [][]vizpipe.Value{
				{n(2019), n(1000)},
				{n(2020), n(1200)},
			},
		},
		{
			desc:         "min per year",
			key:          vizpipe.GroupKey{"Year"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpMin},
			expectedCols: []string{"Year", "Crimes"},
			expectedRows: [][]vizpipe.Value{
				{n(2019), n(800)},
				{n(2020), n(300)},
			},
		},
		{
			desc:         "empty key reduces the whole table",
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpSum},
			expectedCols: []string{"Crimes"},
			expectedRows: [][]vizpipe.Value{
				{n(3300)},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			result, err := vizpipe.Aggregate(crimesTable(t), test.key, test.spec)
			tt.AssertNoErr(t, err)

			tt.AssertEqual(t, result.Columns(), test.expectedCols)
			tt.AssertEqual(t, rowsOf(result), test.expectedRows)
		})
	}

	t.Run("mean should be the sum divided by the count", func(t *testing.T) {
		delays := []float64{0.1, 0.2, 0.3, 1e-3, 7.7}
		var sum float64
		rows := [][]vizpipe.Value{}
		for _, d := range delays {
			sum += d
			rows = append(rows, []vizpipe.Value{n(d)})
		}
		table := mustTable(t, []string{"Delay"}, rows...)

		result, err := vizpipe.Aggregate(table, nil, vizpipe.AggregationSpec{
			ValueColumn: "Delay",
			Operation:   vizpipe.OpMean,
		})
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, rowsOf(result), [][]vizpipe.Value{{n(sum / float64(len(delays)))}})
	})

	t.Run("mean over only missing values should be missing", func(t *testing.T) {
		table := mustTable(t, []string{"Carrier", "Delay"},
			[]vizpipe.Value{s("AA"), n(10)},
			[]vizpipe.Value{s("UA"), vizpipe.Missing},
			[]vizpipe.Value{s("UA"), vizpipe.Missing},
		)

		result, err := vizpipe.Aggregate(table, vizpipe.GroupKey{"Carrier"}, vizpipe.AggregationSpec{
			ValueColumn: "Delay",
			Operation:   vizpipe.OpMean,
		})
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, rowsOf(result), [][]vizpipe.Value{
			{s("AA"), n(10)},
			{s("UA"), vizpipe.Missing},
		})
	})

	t.Run("missing keys should form their own group", func(t *testing.T) {
		table := mustTable(t, []string{"Carrier", "Flights"},
			[]vizpipe.Value{vizpipe.Missing, n(1)},
			[]vizpipe.Value{s(""), n(2)},
			[]vizpipe.Value{vizpipe.Missing, n(4)},
			[]vizpipe.Value{n(0), n(8)},
		)

		result, err := vizpipe.Aggregate(table, vizpipe.GroupKey{"Carrier"}, vizpipe.AggregationSpec{
			ValueColumn: "Flights",
			Operation:   vizpipe.OpSum,
		})
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, rowsOf(result), [][]vizpipe.Value{
			{vizpipe.Missing, n(5)},
			{s(""), n(2)},
			{n(0), n(8)},
		})
	})

	t.Run("counts should add up to the table length", func(t *testing.T) {
		table := crimesTable(t)
		for _, key := range []vizpipe.GroupKey{{"City"}, {"Year"}, {"City", "Year"}, nil} {
			result, err := vizpipe.Aggregate(table, key, vizpipe.AggregationSpec{
				ValueColumn: "Crimes",
				Operation:   vizpipe.OpCount,
			})
			tt.AssertNoErr(t, err)

			var total float64
			for _, v := range result.Column("Crimes") {
				count, _ := v.Float()
				total += count
			}
			tt.AssertEqual(t, total, float64(table.Len()), key)
		}
	})

	t.Run("group order should only depend on first occurrences", func(t *testing.T) {
		shuffled := mustTable(t, []string{"City", "Year", "Crimes"},
			[]vizpipe.Value{s("Chicago"), n(2020), n(1200)},
			[]vizpipe.Value{s("Boston"), n(2020), vizpipe.Missing},
			[]vizpipe.Value{s("Austin"), n(2020), n(300)},
			[]vizpipe.Value{s("Boston"), n(2019), n(800)},
			[]vizpipe.Value{s("Chicago"), n(2019), n(1000)},
		)

		spec := vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpSum}
		original, err := vizpipe.Aggregate(crimesTable(t), vizpipe.GroupKey{"City"}, spec)
		tt.AssertNoErr(t, err)
		reordered, err := vizpipe.Aggregate(shuffled, vizpipe.GroupKey{"City"}, spec)
		tt.AssertNoErr(t, err)

		tt.AssertEqual(t, rowsOf(reordered), rowsOf(original))
	})

	t.Run("empty key over an empty table", func(t *testing.T) {
		table := mustTable(t, []string{"Delay"})

		sum, err := vizpipe.Aggregate(table, nil, vizpipe.AggregationSpec{ValueColumn: "Delay", Operation: vizpipe.OpSum})
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, rowsOf(sum), [][]vizpipe.Value{{n(0)}})

		mean, err := vizpipe.Aggregate(table, nil, vizpipe.AggregationSpec{ValueColumn: "Delay", Operation: vizpipe.OpMean})
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, rowsOf(mean), [][]vizpipe.Value{{vizpipe.Missing}})
	})

	t.Run("identity should return the table unchanged", func(t *testing.T) {
		table := crimesTable(t)
		result, err := vizpipe.Aggregate(table, nil, vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpIdentity})
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, result.Columns(), table.Columns())
		tt.AssertEqual(t, rowsOf(result), rowsOf(table))
	})

	t.Run("should not modify the input table", func(t *testing.T) {
		table := crimesTable(t)
		before := rowsOf(table)
		_, err := vizpipe.Aggregate(table, vizpipe.GroupKey{"City"}, vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpSum})
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, rowsOf(table), before)
	})
}

func TestAggregateErrors(t *testing.T) {
	tests := []struct {
		desc               string
		key                vizpipe.GroupKey
		spec               vizpipe.AggregationSpec
		expectedCode       string
		expectErrToContain []string
	}{
		{
			desc:               "unknown key and value columns",
			key:                vizpipe.GroupKey{"State", "City"},
			spec:               vizpipe.AggregationSpec{ValueColumn: "Robberies", Operation: vizpipe.OpSum},
			expectedCode:       vizpipe.SchemaErrCode,
			expectErrToContain: []string{"State", "Robberies"},
		},
		{
			desc:               "sum over a string column",
			key:                vizpipe.GroupKey{"Year"},
			spec:               vizpipe.AggregationSpec{ValueColumn: "City", Operation: vizpipe.OpSum},
			expectedCode:       vizpipe.TypeErrCode,
			expectErrToContain: []string{"numeric", "City"},
		},
		{
			desc:         "mean over a string column",
			spec:         vizpipe.AggregationSpec{ValueColumn: "City", Operation: vizpipe.OpMean},
			expectedCode: vizpipe.TypeErrCode,
		},
		{
			desc:         "identity with a group key",
			key:          vizpipe.GroupKey{"City"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpIdentity},
			expectedCode: vizpipe.ArgumentErrCode,
		},
		{
			desc:         "identity over a string column",
			spec:         vizpipe.AggregationSpec{ValueColumn: "City", Operation: vizpipe.OpIdentity},
			expectedCode: vizpipe.TypeErrCode,
		},
		{
			desc:               "unknown operation",
			spec:               vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: "median"},
			expectedCode:       vizpipe.ArgumentErrCode,
			expectErrToContain: []string{"median"},
		},
		{
			desc:         "repeated key columns",
			key:          vizpipe.GroupKey{"City", "City"},
			spec:         vizpipe.AggregationSpec{ValueColumn: "Crimes", Operation: vizpipe.OpSum},
			expectedCode: vizpipe.ArgumentErrCode,
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := vizpipe.Aggregate(crimesTable(t), test.key, test.spec)
			tt.AssertErrCode(t, err, test.expectedCode)
			tt.AssertErrContains(t, err, test.expectErrToContain...)
		})
	}

	t.Run("count accepts string columns", func(t *testing.T) {
		_, err := vizpipe.Aggregate(crimesTable(t), vizpipe.GroupKey{"Year"}, vizpipe.AggregationSpec{
			ValueColumn: "City",
			Operation:   vizpipe.OpCount,
		})
		tt.AssertNoErr(t, err)
	})
}

func rowsOf(table vizpipe.Table) [][]vizpipe.Value {
	rows := make([][]vizpipe.Value, table.Len())
	for i := range rows {
		for _, col := range table.Columns() {
			rows[i] = append(rows[i], table.At(i, col))
		}
	}
	return rows
}
