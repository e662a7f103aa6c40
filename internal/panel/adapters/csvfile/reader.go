package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/ports"
)

type ReaderConfig struct {
	Dir          string
	ResponseFile string // default response_data.csv
	CostFile     string // default cost_data.csv
	Marker       string // default _SUCCESS, never read as a table
}

func (c ReaderConfig) withDefaults() ReaderConfig {
	if c.ResponseFile == "" {
		c.ResponseFile = "response_data.csv"
	}
	if c.CostFile == "" {
		c.CostFile = "cost_data.csv"
	}
	if c.Marker == "" {
		c.Marker = "_SUCCESS"
	}
	return c
}

// Reader loads both source tables from one input folder.
type Reader struct {
	cfg ReaderConfig
}

func NewReader(cfg ReaderConfig) *Reader {
	return &Reader{cfg: cfg.withDefaults()}
}

var _ ports.SourceReaderPort = (*Reader)(nil)

func (r *Reader) ReadSources(ctx context.Context) (*domain.Sources, error) {
	files, err := r.listInputs()
	if err != nil {
		return nil, err
	}

	respPath, err := r.locate(files, r.cfg.ResponseFile)
	if err != nil {
		return nil, err
	}
	costPath, err := r.locate(files, r.cfg.CostFile)
	if err != nil {
		return nil, err
	}

	responses, err := readResponses(ctx, respPath)
	if err != nil {
		return nil, err
	}
	costs, err := readCosts(ctx, costPath)
	if err != nil {
		return nil, err
	}

	return &domain.Sources{Responses: responses, Costs: costs}, nil
}

// listInputs maps base names to paths for every regular file in the folder
// except the marker.
func (r *Reader) listInputs() (map[string]string, error) {
	matches, err := filepath.Glob(filepath.Join(r.cfg.Dir, "*"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		if _, err := os.Stat(r.cfg.Dir); err != nil {
			return nil, fmt.Errorf("input folder: %w", err)
		}
	}

	files := make(map[string]string, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		if base == r.cfg.Marker {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files[base] = m
	}
	return files, nil
}

func (r *Reader) locate(files map[string]string, name string) (string, error) {
	if p, ok := files[name]; ok {
		return p, nil
	}
	if p, ok := files[name+compressedExt]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %s not found in %s", domain.ErrMissingSource, name, r.cfg.Dir)
}

func readResponses(ctx context.Context, path string) ([]domain.ResponseRecord, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	cols, err := t.require("geo", "geo_name", "date", "response")
	if err != nil {
		return nil, err
	}
	width := t.width()

	var out []domain.ResponseRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, line, err := t.next(width)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		date, err := domain.ParseDate(rec[cols[2]])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		v, err := parseValue(rec[cols[3]])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		out = append(out, domain.ResponseRecord{
			Geo:      rec[cols[0]],
			GeoName:  rec[cols[1]],
			Date:     date,
			Response: v,
		})
	}
	return out, nil
}

func readCosts(ctx context.Context, path string) ([]domain.CostRecord, error) {
	t, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	cols, err := t.require("geo", "date", "cost")
	if err != nil {
		return nil, err
	}
	width := t.width()

	var out []domain.CostRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, line, err := t.next(width)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		date, err := domain.ParseDate(rec[cols[1]])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		v, err := parseValue(rec[cols[2]])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		out = append(out, domain.CostRecord{
			Geo:  rec[cols[0]],
			Date: date,
			Cost: v,
		})
	}
	return out, nil
}
