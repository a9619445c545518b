// Package config loads chart pipelines declared in YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/vingarcia/vizpipe"
	"github.com/vingarcia/vizpipe/internal"
	"github.com/vingarcia/vizpipe/internal/adapters/evaluator/bexpr"
	"github.com/vingarcia/vizpipe/internal/eparser"
)

type Config struct {
	Charts []ChartConfig `yaml:"charts"`
}

type ChartConfig struct {
	Name      string            `yaml:"name"`
	From      string            `yaml:"from"`
	Where     string            `yaml:"where,omitempty"`
	GroupBy   []string          `yaml:"groupBy,omitempty"`
	Aggregate string            `yaml:"aggregate,omitempty"`
	Chart     ChartRenderConfig `yaml:"chart"`
}

type ChartRenderConfig struct {
	Type     string            `yaml:"type"`
	Title    string            `yaml:"title,omitempty"`
	Channels map[string]string `yaml:"channels"`
}

// LoadFile reads and validates the config stored at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a YAML config and validates it.
func Load(r io.Reader) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg Config
	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the parts of the config that do not depend on
// the data: names, sources and chart types.
func (c Config) Validate() error {
	if len(c.Charts) == 0 {
		return vizpipe.ArgumentErr("config declares no charts", nil)
	}

	names := lo.Map(c.Charts, func(chart ChartConfig, _ int) string {
		return chart.Name
	})
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return vizpipe.ArgumentErr("chart names must be unique", map[string]any{
			"duplicated": dups,
		})
	}

	for i, chart := range c.Charts {
		var problems []string
		if strings.TrimSpace(chart.Name) == "" {
			problems = append(problems, "missing name")
		}
		if strings.TrimSpace(chart.From) == "" {
			problems = append(problems, "missing data source")
		}
		if chart.Chart.Type == "" {
			problems = append(problems, "missing chart type")
		}
		if len(chart.GroupBy) > 0 && chart.Aggregate == "" {
			problems = append(problems, "groupBy requires an aggregate")
		}

		if len(problems) > 0 {
			return vizpipe.ArgumentErr("invalid chart config", map[string]any{
				"index":    i,
				"chart":    chart.Name,
				"problems": problems,
			})
		}
	}

	return nil
}

// Queries compiles every chart of the config.
func (c Config) Queries() ([]internal.Query, error) {
	queries := make([]internal.Query, 0, len(c.Charts))
	for _, chart := range c.Charts {
		q, err := chart.Query()
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}

	return queries, nil
}

// Query compiles the chart's filter and aggregation expressions.
func (c ChartConfig) Query() (internal.Query, error) {
	variant, err := vizpipe.ParseVariant(c.Chart.Type)
	if err != nil {
		return internal.Query{}, fmt.Errorf("chart '%s': %w", c.Name, err)
	}

	q := internal.Query{
		Name: c.Name,
		From: c.From,
		Chart: internal.Chart{
			Variant:  variant,
			Title:    c.Chart.Title,
			Channels: vizpipe.ChannelMapping{},
		},
	}

	for ch, col := range c.Chart.Channels {
		q.Chart.Channels[vizpipe.Channel(ch)] = col
	}

	if c.Where != "" {
		q.Where, err = bexpr.New(c.Where)
		if err != nil {
			return internal.Query{}, fmt.Errorf("chart '%s': %w", c.Name, err)
		}
	}

	if c.Aggregate != "" {
		spec, err := eparser.Parse(c.Aggregate)
		if err != nil {
			return internal.Query{}, fmt.Errorf("chart '%s': %w", c.Name, err)
		}

		q.GroupBy = internal.GroupBy{
			Keys:        vizpipe.GroupKey(c.GroupBy),
			Aggregation: &spec,
		}
	}

	return q, nil
}
