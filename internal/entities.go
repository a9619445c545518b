package internal

import (
	"github.com/vingarcia/vizpipe"
	"github.com/vingarcia/vizpipe/internal/adapters/evaluator"
)

type DataSourceRepo interface {
	FindByName(name string) (DataSource, error)
}

type DataSource struct {
	Name string
	Type string
	Read func() (vizpipe.Table, error)
}

// Query describes one chart: where its rows come from, how they
// are filtered and aggregated and how the result is drawn.
type Query struct {
	Name    string
	From    string
	Where   evaluator.Expression
	GroupBy GroupBy
	Chart   Chart
}

// GroupBy is skipped entirely when Aggregation is nil.
type GroupBy struct {
	Keys        vizpipe.GroupKey
	Aggregation *vizpipe.AggregationSpec
}

type Chart struct {
	Variant  vizpipe.ChartVariant
	Channels vizpipe.ChannelMapping
	Title    string
}
