// FilePath: internal/models/models.aggregate.go
package models

import (
	"sort"
	"time"
)

// BucketAverages groups readings into interval buckets by truncated
// timestamp and returns the unweighted mean per bucket, ascending. This is
// the in-memory counterpart of the store-side aggregation; the two must
// agree on bucketing and averaging.
func BucketAverages(readings []*Reading, interval Interval) []AggregateBucket {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[time.Time]*acc)
	for _, reading := range readings {
		key := interval.Truncate(reading.Timestamp)
		a, ok := groups[key]
		if !ok {
			a = &acc{}
			groups[key] = a
		}
		a.sum += reading.Value
		a.count++
	}

	buckets := make([]AggregateBucket, 0, len(groups))
	for key, a := range groups {
		buckets = append(buckets, AggregateBucket{
			Timestamp: key,
			Average:   a.sum / float64(a.count),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Timestamp.Before(buckets[j].Timestamp)
	})
	return buckets
}

// LatestReadingPerGroup keeps at most one reading per (sensor, data type)
// pair, the one with the maximum timestamp at or after since. This is the
// in-memory counterpart of the store-side window query.
func LatestReadingPerGroup(readings []*Reading, since time.Time) []*Reading {
	type groupKey struct {
		sensorID string
		dataType DataType
	}
	latest := make(map[groupKey]*Reading)
	order := []groupKey{}

	for _, reading := range readings {
		if reading.Timestamp.Before(since) {
			continue
		}
		key := groupKey{reading.SensorID, reading.DataType}
		current, ok := latest[key]
		if !ok {
			latest[key] = reading
			order = append(order, key)
			continue
		}
		if reading.Timestamp.After(current.Timestamp) {
			latest[key] = reading
		}
	}

	result := make([]*Reading, 0, len(order))
	for _, key := range order {
		result = append(result, latest[key])
	}
	return result
}
