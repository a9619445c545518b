package memsource

import (
	"fmt"
	"sort"

	"github.com/vingarcia/vizpipe"
	"github.com/vingarcia/vizpipe/internal"
)

// Repo serves tables that were already loaded in memory.
type Repo struct {
	tables map[string]vizpipe.Table
}

func New(tables map[string]vizpipe.Table) Repo {
	copied := make(map[string]vizpipe.Table, len(tables))
	for name, t := range tables {
		copied[name] = t
	}

	return Repo{
		tables: copied,
	}
}

func (r Repo) FindByName(name string) (internal.DataSource, error) {
	t, ok := r.tables[name]
	if !ok {
		return internal.DataSource{}, fmt.Errorf("data source '%s' not found, available: %v", name, r.names())
	}

	return internal.DataSource{
		Name: name,
		Type: "memory",
		Read: func() (vizpipe.Table, error) {
			return t, nil
		},
	}, nil
}

func (r Repo) names() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
