package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/samber/lo"

	"github.com/vingarcia/vizpipe"
	"github.com/vingarcia/vizpipe/internal"
	"github.com/vingarcia/vizpipe/internal/adapters/csvsource"
	"github.com/vingarcia/vizpipe/internal/config"
	"github.com/vingarcia/vizpipe/internal/pipeline"
)

type namedChart struct {
	Name  string            `json:"name"`
	Chart vizpipe.ChartSpec `json:"chart"`
}

func runCharts(w io.Writer, configPath string, dataDir string, only []string, asTable bool) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	queries, err := cfg.Queries()
	if err != nil {
		return err
	}

	queries, err = selectQueries(queries, only)
	if err != nil {
		return err
	}

	results := pipeline.RunAll(csvsource.New(dataDir), queries)

	built := []namedChart{}
	var failed []string
	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, result.Name)
			continue
		}
		built = append(built, namedChart{Name: result.Name, Chart: result.Chart})
	}

	if asTable {
		printTables(w, built)
	} else {
		b, err := json.MarshalIndent(built, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding charts: %w", err)
		}
		fmt.Fprintln(w, string(b))
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d charts failed: %v", len(failed), len(results), failed)
	}

	return nil
}

func validateConfig(configPath string) (int, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return 0, err
	}

	queries, err := cfg.Queries()
	if err != nil {
		return 0, err
	}

	return len(queries), nil
}

func selectQueries(queries []internal.Query, only []string) ([]internal.Query, error) {
	if len(only) == 0 {
		return queries, nil
	}

	names := lo.Map(queries, func(q internal.Query, _ int) string {
		return q.Name
	})
	if unknown := lo.Without(only, names...); len(unknown) > 0 {
		return nil, fmt.Errorf("unknown charts %v, available: %v", unknown, names)
	}

	return lo.Filter(queries, func(q internal.Query, _ int) bool {
		return lo.Contains(only, q.Name)
	}), nil
}

func printTables(w io.Writer, charts []namedChart) {
	for i, c := range charts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s, %s)\n", c.Name, c.Chart.Variant(), c.Chart.RenderMode())

		data := c.Chart.Data()
		tbl := table.New(lo.ToAnySlice(data.Columns())...).WithWriter(w)
		for row := 0; row < data.Len(); row++ {
			tbl.AddRow(lo.Map(data.Columns(), func(col string, _ int) any {
				return data.At(row, col).String()
			})...)
		}
		tbl.Print()
	}
}
