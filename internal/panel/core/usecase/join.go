package usecase

import (
	"slices"

	"geo-timeseries-service/internal/panel/core/domain"
)

// Join outer-merges the response and cost series on (geo, date) and attaches
// geo names from dict. Rows keep the response key order; keys present only in
// costs follow in index order with a zero response. Geos without a dictionary
// entry keep their row with an empty name.
func Join(response, cost domain.DenseSeries, dict domain.Dictionary) domain.Panel {
	costByKey := make(map[domain.Key]float64, cost.Len())
	for i, k := range cost.Keys {
		costByKey[k] = cost.Values[i]
	}

	rows := make([]domain.PanelRow, 0, response.Len())
	seen := make(map[domain.Key]struct{}, response.Len())

	for i, k := range response.Keys {
		seen[k] = struct{}{}
		rows = append(rows, domain.PanelRow{
			Geo:      k.Geo,
			Date:     k.Date,
			Response: response.Values[i],
			Cost:     costByKey[k],
		})
	}

	var costOnly []domain.Key
	for _, k := range cost.Keys {
		if _, ok := seen[k]; !ok {
			costOnly = append(costOnly, k)
		}
	}
	if len(costOnly) > 0 {
		geos := make([]string, len(costOnly))
		for i, k := range costOnly {
			geos[i] = k.Geo
		}
		slices.SortFunc(costOnly, compareKeys(allIntegers(geos)))
		for _, k := range costOnly {
			rows = append(rows, domain.PanelRow{Geo: k.Geo, Date: k.Date, Cost: costByKey[k]})
		}
	}

	for i := range rows {
		rows[i].GeoName, rows[i].HasName = dict.Lookup(rows[i].Geo)
	}

	return domain.Panel{Rows: rows}
}
