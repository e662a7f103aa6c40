package csvfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"geo-timeseries-service/internal/panel/core/domain"

	"github.com/golang/snappy"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func samplePanel() (domain.Dictionary, domain.Panel) {
	dict := domain.NewDictionary([]domain.GeoEntry{{Geo: "US", GeoName: "United States"}})
	d1 := domain.NewDate(2024, time.January, 1)
	panel := domain.Panel{Rows: []domain.PanelRow{
		{Geo: "US", Date: d1, Response: 5, Cost: 0, GeoName: "United States", HasName: true},
		{Geo: "US", Date: d1.AddDays(1), Response: 0, Cost: 2.5, GeoName: "United States", HasName: true},
		{Geo: "MX", Date: d1, Response: 1, Cost: 0},
	}}
	return dict, panel
}

// ------------------------------------------------------------
// READER
// ------------------------------------------------------------

func TestReader_ReadSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "response_data.csv",
		"date,geo,extra,geo_name,response\n"+
			"2024-01-01,US,x,United States,5\n"+
			"2024-01-03,US,y,United States,\n")
	writeFile(t, dir, "cost_data.csv", "geo,date,cost\nUS,2024-01-02,2.5\n")
	writeFile(t, dir, "_SUCCESS", "")

	src, err := NewReader(ReaderConfig{Dir: dir}).ReadSources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(src.Responses) != 2 || len(src.Costs) != 1 {
		t.Fatalf("unexpected sizes: responses=%d costs=%d", len(src.Responses), len(src.Costs))
	}
	r := src.Responses[0]
	if r.Geo != "US" || r.GeoName != "United States" || r.Date.String() != "2024-01-01" || r.Response != 5 {
		t.Fatalf("unexpected first response: %+v", r)
	}
	if src.Responses[1].Response != 0 {
		t.Fatalf("expected empty cell to read as 0, got %v", src.Responses[1].Response)
	}
	if src.Costs[0].Cost != 2.5 {
		t.Fatalf("expected cost 2.5, got %v", src.Costs[0].Cost)
	}
}

func TestReader_MissingTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "response_data.csv", "geo,geo_name,date,response\nUS,United States,2024-01-01,1\n")

	_, err := NewReader(ReaderConfig{Dir: dir}).ReadSources(context.Background())
	if !errors.Is(err, domain.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
}

func TestReader_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "response_data.csv", "geo,date,response\nUS,2024-01-01,1\n")
	writeFile(t, dir, "cost_data.csv", "geo,date,cost\n")

	_, err := NewReader(ReaderConfig{Dir: dir}).ReadSources(context.Background())
	if !errors.Is(err, domain.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "geo_name") {
		t.Fatalf("expected column name in error, got %v", err)
	}
}

func TestReader_InvalidDate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "response_data.csv", "geo,geo_name,date,response\nUS,United States,2024-01-01,1\nUS,United States,soon,2\n")
	writeFile(t, dir, "cost_data.csv", "geo,date,cost\n")

	_, err := NewReader(ReaderConfig{Dir: dir}).ReadSources(context.Background())
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if !strings.Contains(err.Error(), "response_data.csv:3") {
		t.Fatalf("expected file and line in error, got %v", err)
	}
}

func TestReader_InvalidValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "response_data.csv", "geo,geo_name,date,response\nUS,United States,2024-01-01,1\n")
	writeFile(t, dir, "cost_data.csv", "geo,date,cost\nUS,2024-01-01,lots\n")

	_, err := NewReader(ReaderConfig{Dir: dir}).ReadSources(context.Background())
	if !errors.Is(err, domain.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestReader_CompressedInput(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	sw := snappy.NewBufferedWriter(&buf)
	sw.Write([]byte("geo,geo_name,date,response\n1,Alabama,2024-01-01,3\n"))
	sw.Close()
	writeFile(t, dir, "response_data.csv.sz", buf.String())
	writeFile(t, dir, "cost_data.csv", "geo,date,cost\n")

	src, err := NewReader(ReaderConfig{Dir: dir}).ReadSources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.Responses) != 1 || src.Responses[0].Response != 3 {
		t.Fatalf("unexpected responses: %+v", src.Responses)
	}
}

// ------------------------------------------------------------
// WRITER
// ------------------------------------------------------------

func TestWriter_WritePanel(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(WriterConfig{Dir: dir})
	dict, panel := samplePanel()

	if err := w.WritePanel(context.Background(), dict, panel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dictPath, panelPath := w.Paths()
	gotDict, _ := os.ReadFile(dictPath)
	gotPanel, _ := os.ReadFile(panelPath)

	wantDict := "geo,geo_name\nUS,United States\n"
	wantPanel := "geo,date,response,cost,geo_name\n" +
		"US,2024-01-01,5,0,United States\n" +
		"US,2024-01-02,0,2.5,United States\n" +
		"MX,2024-01-01,1,0,\n"

	if string(gotDict) != wantDict {
		t.Fatalf("expected dictionary %q, got %q", wantDict, gotDict)
	}
	if string(gotPanel) != wantPanel {
		t.Fatalf("expected panel %q, got %q", wantPanel, gotPanel)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("expected only the two outputs, found %d entries", len(entries))
	}
}

func TestWriter_Idempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(WriterConfig{Dir: dir})
	dict, panel := samplePanel()

	if err := w.WritePanel(context.Background(), dict, panel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, panelPath := w.Paths()
	first, _ := os.ReadFile(panelPath)

	if err := w.WritePanel(context.Background(), dict, panel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := os.ReadFile(panelPath)

	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical output across runs")
	}
}

func TestWriter_CancelledLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(WriterConfig{Dir: dir})
	dict, panel := samplePanel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.WritePanel(ctx, dict, panel); err == nil {
		t.Fatalf("expected error, got nil")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files after a failed write, found %d", len(entries))
	}
}

func TestWriter_FailedPublishKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(WriterConfig{Dir: dir})
	dict, panel := samplePanel()
	dictPath, panelPath := w.Paths()

	oldDict := "geo,geo_name\nCA,Canada\n"
	writeFile(t, dir, filepath.Base(dictPath), oldDict)
	// a non-empty directory where the panel goes makes the second rename fail
	if err := os.MkdirAll(filepath.Join(panelPath, "busy"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := w.WritePanel(context.Background(), dict, panel); err == nil {
		t.Fatalf("expected error, got nil")
	}

	got, err := os.ReadFile(dictPath)
	if err != nil {
		t.Fatalf("expected previous dictionary to remain: %v", err)
	}
	if string(got) != oldDict {
		t.Fatalf("expected dictionary %q, got %q", oldDict, got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the old dictionary and the blocking dir, found %v", names)
	}
}

func TestWriter_FailedPublishWithoutPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(WriterConfig{Dir: dir})
	dict, panel := samplePanel()
	dictPath, panelPath := w.Paths()

	if err := os.MkdirAll(filepath.Join(panelPath, "busy"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := w.WritePanel(context.Background(), dict, panel); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if _, err := os.Stat(dictPath); !os.IsNotExist(err) {
		t.Fatalf("expected no dictionary after a failed publish, got err=%v", err)
	}
}

func TestWriter_CompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(WriterConfig{Dir: dir, Compress: true, PanelFile: "response_data.csv"})
	dict, panel := samplePanel()

	if err := w.WritePanel(context.Background(), dict, panel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, panelPath := w.Paths()
	if !strings.HasSuffix(panelPath, ".csv.sz") {
		t.Fatalf("expected .csv.sz output, got %s", panelPath)
	}

	// the panel has every column the response reader needs
	writeFile(t, dir, "cost_data.csv", "geo,date,cost\n")
	src, err := NewReader(ReaderConfig{Dir: dir}).ReadSources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.Responses) != len(panel.Rows) {
		t.Fatalf("expected %d rows back, got %d", len(panel.Rows), len(src.Responses))
	}
}

// ------------------------------------------------------------
// MARKER
// ------------------------------------------------------------

func TestWaitForMarker_AlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "_SUCCESS", "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := WaitForMarker(ctx, dir, "_SUCCESS"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForMarker_CreatedLater(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- WaitForMarker(ctx, dir, "_SUCCESS") }()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "_SUCCESS", "")

	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForMarker_Cancelled(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := WaitForMarker(ctx, dir, "_SUCCESS")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
