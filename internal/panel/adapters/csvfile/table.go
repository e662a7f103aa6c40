package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"geo-timeseries-service/internal/panel/core/domain"

	"github.com/golang/snappy"
)

// Snappy-framed files carry this suffix on top of .csv.
const compressedExt = ".sz"

// table is an open CSV file with its header resolved.
type table struct {
	path    string
	file    *os.File
	reader  *csv.Reader
	columns map[string]int
}

func openTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var r io.Reader = f
	if strings.HasSuffix(path, compressedExt) {
		r = snappy.NewReader(f)
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("%s: %w: empty file has no header", path, domain.ErrMissingColumn)
		}
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	return &table{path: path, file: f, reader: cr, columns: columns}, nil
}

func (t *table) Close() error { return t.file.Close() }

// require resolves the positions of the named columns.
func (t *table) require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		pos, ok := t.columns[n]
		if !ok {
			return nil, fmt.Errorf("%s: %w: %q", t.path, domain.ErrMissingColumn, n)
		}
		idx[i] = pos
	}
	return idx, nil
}

// next returns the following record, or io.EOF. Short rows are padded so
// column lookups never go out of range.
func (t *table) next(width int) ([]string, int, error) {
	rec, err := t.reader.Read()
	if err != nil {
		return nil, 0, err
	}
	line, _ := t.reader.FieldPos(0)
	for len(rec) < width {
		rec = append(rec, "")
	}
	return rec, line, nil
}

func (t *table) width() int {
	w := 0
	for _, pos := range t.columns {
		if pos+1 > w {
			w = pos + 1
		}
	}
	return w
}

func parseValue(s string) (float64, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidValue, s)
	}
	return f, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
