package domain

import "errors"

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMissingSource = errors.New("missing source table")
	ErrInvalidValue  = errors.New("invalid numeric value")
)

type ResponseRecord struct {
	Geo      string
	GeoName  string
	Date     Date
	Response float64
}

type CostRecord struct {
	Geo  string
	Date Date
	Cost float64
}

// Sources is what one run reads before any computation starts.
type Sources struct {
	Responses []ResponseRecord
	Costs     []CostRecord
}

type GeoEntry struct {
	Geo     string
	GeoName string
}

// Dictionary maps each geo id to one display name, in first-seen order.
type Dictionary struct {
	Entries []GeoEntry
	byGeo   map[string]string
}

func NewDictionary(entries []GeoEntry) Dictionary {
	byGeo := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, ok := byGeo[e.Geo]; !ok {
			byGeo[e.Geo] = e.GeoName
		}
	}
	return Dictionary{Entries: entries, byGeo: byGeo}
}

func (d Dictionary) Lookup(geo string) (string, bool) {
	name, ok := d.byGeo[geo]
	return name, ok
}

func (d Dictionary) Len() int { return len(d.Entries) }

type Key struct {
	Geo  string
	Date Date
}

// Index is the canonical row index: every geo crossed with every day, geo-major.
// len(Keys) == len(Geos) * len(Dates).
type Index struct {
	Geos  []string
	Dates []Date
	Keys  []Key
}

func (ix Index) Len() int { return len(ix.Keys) }

// DenseSeries holds one value per key; Keys and Values are parallel.
type DenseSeries struct {
	Keys   []Key
	Values []float64
}

func (s DenseSeries) Len() int { return len(s.Keys) }

type PanelRow struct {
	Geo      string
	Date     Date
	Response float64
	Cost     float64
	GeoName  string
	HasName  bool // false when the geo has no dictionary entry
}

type Panel struct {
	Rows []PanelRow
}

func (p Panel) Len() int { return len(p.Rows) }
