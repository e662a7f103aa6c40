package usecase

import (
	"slices"
	"strconv"
	"strings"

	"geo-timeseries-service/internal/panel/core/domain"
)

// BuildIndex derives the canonical index from the response table only:
// the distinct geos (sorted) crossed with every day from the earliest to the
// latest response date, inclusive.
func BuildIndex(responses []domain.ResponseRecord) (domain.Index, error) {
	if len(responses) == 0 {
		return domain.Index{}, ErrEmptyResponses
	}

	minDate, maxDate := responses[0].Date, responses[0].Date
	seen := make(map[string]struct{})
	geos := make([]string, 0)

	for _, r := range responses {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
		if _, ok := seen[r.Geo]; !ok {
			seen[r.Geo] = struct{}{}
			geos = append(geos, r.Geo)
		}
	}

	sortGeos(geos)

	dates := make([]domain.Date, 0, minDate.DaysUntil(maxDate)+1)
	for d := minDate; !d.After(maxDate); d = d.AddDays(1) {
		dates = append(dates, d)
	}

	keys := make([]domain.Key, 0, len(geos)*len(dates))
	for _, g := range geos {
		for _, d := range dates {
			keys = append(keys, domain.Key{Geo: g, Date: d})
		}
	}

	return domain.Index{Geos: geos, Dates: dates, Keys: keys}, nil
}

// sortGeos orders geo ids numerically when all of them are integers,
// lexicographically otherwise.
func sortGeos(geos []string) {
	if allIntegers(geos) {
		slices.SortFunc(geos, compareNumericGeo)
		return
	}
	slices.Sort(geos)
}

func allIntegers(geos []string) bool {
	for _, g := range geos {
		if _, err := strconv.ParseInt(strings.TrimSpace(g), 10, 64); err != nil {
			return false
		}
	}
	return len(geos) > 0
}

func compareNumericGeo(a, b string) int {
	x, _ := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	y, _ := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return strings.Compare(a, b)
}

// compareKeys orders keys the same way the index does.
func compareKeys(numeric bool) func(a, b domain.Key) int {
	return func(a, b domain.Key) int {
		var c int
		if numeric {
			c = compareNumericGeo(a.Geo, b.Geo)
		} else {
			c = strings.Compare(a.Geo, b.Geo)
		}
		if c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	}
}
