package usecase

import (
	"fmt"

	"geo-timeseries-service/internal/panel/core/domain"
)

// Point is one sparse observation of a source table.
type Point struct {
	Key   domain.Key
	Value float64
}

func ResponsePoints(records []domain.ResponseRecord) []Point {
	points := make([]Point, len(records))
	for i, r := range records {
		points[i] = Point{Key: domain.Key{Geo: r.Geo, Date: r.Date}, Value: r.Response}
	}
	return points
}

func CostPoints(records []domain.CostRecord) []Point {
	points := make([]Point, len(records))
	for i, r := range records {
		points[i] = Point{Key: domain.Key{Geo: r.Geo, Date: r.Date}, Value: r.Cost}
	}
	return points
}

type DensifyStats struct {
	Duplicates int // points whose key was already seen; the first one wins
	Dropped    int // points whose key is outside the index
}

// Densify reindexes points onto index: one value per index key, the matching
// point's value or 0 when there is none.
func Densify(index domain.Index, points []Point, strict bool) (domain.DenseSeries, DensifyStats, error) {
	var stats DensifyStats

	byKey := make(map[domain.Key]float64, len(points))
	for _, p := range points {
		if _, dup := byKey[p.Key]; dup {
			if strict {
				return domain.DenseSeries{}, stats, fmt.Errorf("%w: geo %q on %s",
					ErrDuplicateKey, p.Key.Geo, p.Key.Date)
			}
			stats.Duplicates++
			continue
		}
		byKey[p.Key] = p.Value
	}

	keys := make([]domain.Key, index.Len())
	values := make([]float64, index.Len())
	matched := 0
	for i, k := range index.Keys {
		keys[i] = k
		if v, ok := byKey[k]; ok {
			values[i] = v
			matched++
		}
	}
	stats.Dropped = len(byKey) - matched

	return domain.DenseSeries{Keys: keys, Values: values}, stats, nil
}
