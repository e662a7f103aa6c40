package usecase

import (
	"fmt"

	"geo-timeseries-service/internal/panel/core/domain"
)

// BuildDictionary extracts one (geo, geo_name) entry per geo in first-seen order.
// A geo seen again under a different name keeps its first name; conflicts counts
// those rows. In strict mode the first conflict is returned as ErrConflictingGeoName.
func BuildDictionary(responses []domain.ResponseRecord, strict bool) (dict domain.Dictionary, conflicts int, err error) {
	entries := make([]domain.GeoEntry, 0)
	names := make(map[string]string)

	for _, r := range responses {
		name, seen := names[r.Geo]
		if !seen {
			names[r.Geo] = r.GeoName
			entries = append(entries, domain.GeoEntry{Geo: r.Geo, GeoName: r.GeoName})
			continue
		}
		if name == r.GeoName {
			continue
		}
		if strict {
			return domain.Dictionary{}, 0, fmt.Errorf("%w: geo %q named %q and %q",
				ErrConflictingGeoName, r.Geo, name, r.GeoName)
		}
		conflicts++
	}

	return domain.NewDictionary(entries), conflicts, nil
}
