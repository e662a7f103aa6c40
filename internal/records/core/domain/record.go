package domain

import (
	panel "geo-timeseries-service/internal/panel/core/domain"
)

// Kind names the source table a record belongs to.
type Kind string

const (
	KindResponse Kind = "responses"
	KindCost     Kind = "costs"
)

func (k Kind) Valid() bool {
	return k == KindResponse || k == KindCost
}

// Record is one observed (geo, date) value on its way into a source table.
// GeoName is only stored for responses.
type Record struct {
	Kind    Kind
	Geo     string
	GeoName string
	Date    panel.Date
	Value   float64
}
