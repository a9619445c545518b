// Package pipeline runs chart queries: it loads the source table,
// filters it, aggregates it and builds the chart spec.
package pipeline

import (
	"fmt"

	"github.com/flanksource/commons/logger"

	"github.com/vingarcia/vizpipe"
	"github.com/vingarcia/vizpipe/internal"
	"github.com/vingarcia/vizpipe/internal/adapters/evaluator"
)

var log = logger.GetLogger("vizpipe")

// Run executes a single query against the data sources in repo.
func Run(repo internal.DataSourceRepo, q internal.Query) (vizpipe.ChartSpec, error) {
	source, err := repo.FindByName(q.From)
	if err != nil {
		return vizpipe.ChartSpec{}, fmt.Errorf("chart '%s': %w", q.Name, err)
	}

	table, err := source.Read()
	if err != nil {
		return vizpipe.ChartSpec{}, fmt.Errorf("chart '%s': error reading %s source '%s': %w", q.Name, source.Type, source.Name, err)
	}
	log.Debugf("chart %s: loaded %d rows from %s source %s", q.Name, table.Len(), source.Type, source.Name)

	if q.Where != nil {
		table, err = evaluator.Filter(table, q.Where)
		if err != nil {
			return vizpipe.ChartSpec{}, fmt.Errorf("chart '%s': %w", q.Name, err)
		}
		log.Debugf("chart %s: %d rows left after filtering", q.Name, table.Len())
	}

	if q.GroupBy.Aggregation != nil {
		table, err = vizpipe.Aggregate(table, q.GroupBy.Keys, *q.GroupBy.Aggregation)
		if err != nil {
			return vizpipe.ChartSpec{}, fmt.Errorf("chart '%s': %w", q.Name, err)
		}
		log.Debugf("chart %s: %s by %v produced %d rows", q.Name, q.GroupBy.Aggregation, q.GroupBy.Keys, table.Len())
	}

	chart, err := vizpipe.Build(q.Chart.Variant, table, q.Chart.Channels, q.Chart.Title)
	if err != nil {
		return vizpipe.ChartSpec{}, fmt.Errorf("chart '%s': %w", q.Name, err)
	}
	log.Tracef("chart %s: built %s chart with channels %v", q.Name, chart.Variant(), chart.Channels())

	return chart, nil
}

// Result holds the outcome of one query run by RunAll.
type Result struct {
	Name  string
	Chart vizpipe.ChartSpec
	Err   error
}

// RunAll runs every query in order and collects one Result per
// query, so a failing chart does not prevent the others from running.
func RunAll(repo internal.DataSourceRepo, queries []internal.Query) []Result {
	results := make([]Result, 0, len(queries))
	failed := 0
	for _, q := range queries {
		chart, err := Run(repo, q)
		if err != nil {
			failed++
			log.Warnf("%v", err)
		}

		results = append(results, Result{
			Name:  q.Name,
			Chart: chart,
			Err:   err,
		})
	}

	log.Infof("built %d of %d charts", len(queries)-failed, len(queries))
	return results
}
