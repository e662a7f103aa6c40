package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/ports"

	"github.com/golang/snappy"
)

var (
	dictionaryHeader = []string{"geo", "geo_name"}
	panelHeader      = []string{"geo", "date", "response", "cost", "geo_name"}
)

type WriterConfig struct {
	Dir            string
	DictionaryFile string // default geo_dictionary.csv
	PanelFile      string // default geo_level_time_series.csv
	// Compress writes snappy-framed files with an extra .sz suffix.
	Compress bool
}

func (c WriterConfig) withDefaults() WriterConfig {
	if c.DictionaryFile == "" {
		c.DictionaryFile = "geo_dictionary.csv"
	}
	if c.PanelFile == "" {
		c.PanelFile = "geo_level_time_series.csv"
	}
	return c
}

// Writer stores the dictionary and the panel as two CSV files in the output
// folder. Either both files are replaced or neither is.
type Writer struct {
	cfg WriterConfig
}

func NewWriter(cfg WriterConfig) *Writer {
	return &Writer{cfg: cfg.withDefaults()}
}

var _ ports.PanelWriterPort = (*Writer)(nil)

// Paths returns the final dictionary and panel file paths.
func (w *Writer) Paths() (dict, panel string) {
	ext := ""
	if w.cfg.Compress {
		ext = compressedExt
	}
	return filepath.Join(w.cfg.Dir, w.cfg.DictionaryFile+ext),
		filepath.Join(w.cfg.Dir, w.cfg.PanelFile+ext)
}

func (w *Writer) WritePanel(ctx context.Context, dict domain.Dictionary, panel domain.Panel) error {
	if err := os.MkdirAll(w.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("output folder: %w", err)
	}
	dictPath, panelPath := w.Paths()

	dictTmp, err := w.writeTemp(dictPath, func(cw *csv.Writer) error {
		return writeDictionary(cw, dict)
	})
	if err != nil {
		return err
	}
	defer os.Remove(dictTmp)

	if err := ctx.Err(); err != nil {
		return err
	}

	panelTmp, err := w.writeTemp(panelPath, func(cw *csv.Writer) error {
		return writePanel(ctx, cw, panel)
	})
	if err != nil {
		return err
	}
	defer os.Remove(panelTmp)

	return publish(dictTmp, dictPath, panelTmp, panelPath)
}

// publish renames both temp files into place. The previous dictionary is
// parked under a backup name until the panel rename succeeds and is put back
// when it fails.
func publish(dictTmp, dictPath, panelTmp, panelPath string) error {
	backup := dictTmp + ".old"
	hadDict := false
	if _, err := os.Lstat(dictPath); err == nil {
		if err := os.Rename(dictPath, backup); err != nil {
			return fmt.Errorf("backup %s: %w", dictPath, err)
		}
		hadDict = true
	}

	restore := func() error {
		if hadDict {
			return os.Rename(backup, dictPath)
		}
		if err := os.Remove(dictPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := os.Rename(dictTmp, dictPath); err != nil {
		if rerr := restore(); rerr != nil {
			return fmt.Errorf("publish %s: %w (restore: %v)", dictPath, err, rerr)
		}
		return fmt.Errorf("publish %s: %w", dictPath, err)
	}
	if err := os.Rename(panelTmp, panelPath); err != nil {
		if rerr := restore(); rerr != nil {
			return fmt.Errorf("publish %s: %w (restore: %v)", panelPath, err, rerr)
		}
		return fmt.Errorf("publish %s: %w", panelPath, err)
	}

	if hadDict {
		_ = os.Remove(backup)
	}
	return nil
}

// writeTemp renders one file next to its final path and returns the temp name.
func (w *Writer) writeTemp(final string, render func(*csv.Writer) error) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(final), "."+filepath.Base(final)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", final, err)
	}
	name := f.Name()

	if err := w.render(f, render); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("write %s: %w", final, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close %s: %w", final, err)
	}
	return name, nil
}

func (w *Writer) render(f *os.File, render func(*csv.Writer) error) error {
	var out io.Writer
	var flush func() error

	if w.cfg.Compress {
		sw := snappy.NewBufferedWriter(f)
		out, flush = sw, sw.Close
	} else {
		bw := bufio.NewWriter(f)
		out, flush = bw, bw.Flush
	}

	cw := csv.NewWriter(out)
	if err := render(cw); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	return f.Sync()
}

func writeDictionary(cw *csv.Writer, dict domain.Dictionary) error {
	if err := cw.Write(dictionaryHeader); err != nil {
		return err
	}
	for _, e := range dict.Entries {
		if err := cw.Write([]string{e.Geo, e.GeoName}); err != nil {
			return err
		}
	}
	return nil
}

func writePanel(ctx context.Context, cw *csv.Writer, panel domain.Panel) error {
	if err := cw.Write(panelHeader); err != nil {
		return err
	}
	rec := make([]string, len(panelHeader))
	for i, row := range panel.Rows {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec[0] = row.Geo
		rec[1] = row.Date.String()
		rec[2] = formatValue(row.Response)
		rec[3] = formatValue(row.Cost)
		rec[4] = row.GeoName
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
