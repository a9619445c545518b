package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/vingarcia/vizpipe"
	"github.com/vingarcia/vizpipe/internal"
)

// Repo finds data sources as `<name>.csv` files inside one directory.
type Repo struct {
	dir string
}

func New(dir string) Repo {
	return Repo{
		dir: dir,
	}
}

func (r Repo) FindByName(name string) (internal.DataSource, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return internal.DataSource{}, fmt.Errorf("invalid data source name '%s'", name)
	}

	path := filepath.Join(r.dir, name+".csv")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return internal.DataSource{}, fmt.Errorf("data source '%s' not found in '%s'", name, r.dir)
		}
		return internal.DataSource{}, fmt.Errorf("error checking data source '%s': %w", name, err)
	}

	return internal.DataSource{
		Name: name,
		Type: "csv",
		Read: func() (vizpipe.Table, error) {
			f, err := os.Open(path)
			if err != nil {
				return vizpipe.Table{}, fmt.Errorf("error opening '%s': %w", path, err)
			}
			defer f.Close()

			t, err := Parse(f)
			if err != nil {
				return vizpipe.Table{}, fmt.Errorf("error reading '%s': %w", path, err)
			}

			return t, nil
		},
	}, nil
}

// Parse reads a CSV document whose first record holds the column names.
//
// Cells are trimmed. Empty cells and the usual null markers (NA,
// NaN, null, ...) become missing values, cells that parse as
// floating point numbers become numbers, infinities included, and
// everything else is kept as a string.
func Parse(r io.Reader) (vizpipe.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return vizpipe.NewTable(nil)
	}
	if err != nil {
		return vizpipe.Table{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows [][]vizpipe.Value
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return vizpipe.Table{}, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make([]vizpipe.Value, len(record))
		for i, cell := range record {
			row[i] = parseCell(cell)
		}
		rows = append(rows, row)
	}

	return vizpipe.NewTable(columns, rows...)
}

var missingMarkers = []string{
	"", "NA", "N/A", "n/a", "#N/A", "<NA>",
	"NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None",
}

func parseCell(cell string) vizpipe.Value {
	trimmed := strings.TrimSpace(cell)
	if lo.Contains(missingMarkers, trimmed) {
		return vizpipe.Missing
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return vizpipe.Num(f)
	}

	return vizpipe.Str(trimmed)
}
