// Package bucket maps maturities onto the fixed time-bucket schedule used by
// the liquidity gap report.
package bucket

import (
	"time"
)

// Bucket is one interval of the fixed maturity schedule. The zero value is
// Overdue; values are ordered exactly as rows appear in the gap report.
type Bucket int

const (
	Overdue Bucket = iota
	Overnight
	Days1to7
	Days8to30
	Months1to3
	Months3to6
	Months6to12
	Years1to2
	Years2to3
	Years3to5
	Years5Plus
)

// bucketNames are the report labels, indexed by Bucket.
var bucketNames = [...]string{
	"Overdue",
	"Overnight",
	"1-7 days",
	"8-30 days",
	"1-3 months",
	"3-6 months",
	"6-12 months",
	"1-2 years",
	"2-3 years",
	"3-5 years",
	"5+ years",
}

func (b Bucket) String() string {
	if b < 0 || int(b) >= len(bucketNames) {
		return "unknown"
	}
	return bucketNames[b]
}

// upperBounds holds the inclusive upper day offset of each non-overdue,
// finite bucket. Intervals are contiguous: Overnight is day 0, 1-7 days is
// [1,7], and so on; anything past 1825 days or without a maturity is 5+
// years. Together with Overdue for negative offsets this partitions every
// possible maturity into exactly one bucket.
var upperBounds = []struct {
	bucket Bucket
	maxDay int
}{
	{Overnight, 0},
	{Days1to7, 7},
	{Days8to30, 30},
	{Months1to3, 90},
	{Months3to6, 180},
	{Months6to12, 365},
	{Years1to2, 730},
	{Years2to3, 1095},
	{Years3to5, 1825},
}

// All returns the buckets in report order, Overdue first.
func All() []Bucket {
	out := make([]Bucket, 0, len(bucketNames))
	for b := Overdue; b <= Years5Plus; b++ {
		out = append(out, b)
	}
	return out
}

// Classify maps an effective maturity to its bucket relative to the as-of
// date. A nil maturity means a perpetual instrument, which lands in the
// longest bucket; a maturity before the as-of date is Overdue.
func Classify(asOf time.Time, maturity *time.Time) Bucket {
	if maturity == nil {
		return Years5Plus
	}
	days := daysBetween(asOf, *maturity)
	return FromDays(days)
}

// FromDays maps a day offset from the as-of date to its bucket. Negative
// offsets are Overdue.
func FromDays(days int) Bucket {
	if days < 0 {
		return Overdue
	}
	for _, ub := range upperBounds {
		if days <= ub.maxDay {
			return ub.bucket
		}
	}
	return Years5Plus
}

// daysBetween counts whole calendar days from a to b after truncating both to
// midnight UTC.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
