package bucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

func datep(t time.Time) *time.Time { return &t }

func TestFromDaysBoundaries(t *testing.T) {
	tests := []struct {
		days int
		want Bucket
	}{
		{-1, Overdue},
		{-400, Overdue},
		{0, Overnight},
		{1, Days1to7},
		{7, Days1to7},
		{8, Days8to30},
		{30, Days8to30},
		{31, Months1to3},
		{90, Months1to3},
		{91, Months3to6},
		{180, Months3to6},
		{181, Months6to12},
		{365, Months6to12},
		{366, Years1to2},
		{730, Years1to2},
		{731, Years2to3},
		{1095, Years2to3},
		{1096, Years3to5},
		{1825, Years3to5},
		{1826, Years5Plus},
		{10000, Years5Plus},
	}

	for _, tt := range tests {
		t.Run(Bucket(tt.want).String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FromDays(tt.days), "days=%d", tt.days)
		})
	}
}

// TestPartition verifies that every non-negative day offset maps to exactly
// one bucket and that the mapping is monotone.
func TestPartition(t *testing.T) {
	prev := Overnight
	for d := 0; d <= 2200; d++ {
		b := FromDays(d)
		require.GreaterOrEqual(t, b, Overnight, "days=%d", d)
		require.LessOrEqual(t, b, Years5Plus, "days=%d", d)
		require.GreaterOrEqual(t, b, prev, "bucket order must be monotone at days=%d", d)
		prev = b
	}
}

func TestClassify(t *testing.T) {
	t.Run("perpetual goes to longest bucket", func(t *testing.T) {
		assert.Equal(t, Years5Plus, Classify(asOf, nil))
	})

	t.Run("maturity before as-of is overdue", func(t *testing.T) {
		assert.Equal(t, Overdue, Classify(asOf, datep(asOf.AddDate(0, 0, -1))))
	})

	t.Run("maturity on as-of is overnight", func(t *testing.T) {
		assert.Equal(t, Overnight, Classify(asOf, datep(asOf)))
	})

	t.Run("three year maturity lands in 2-3 years", func(t *testing.T) {
		// 2024-12-01 to 2027-12-01 is 1095 days, the top of the 2-3y interval
		assert.Equal(t, Years2to3, Classify(asOf, datep(time.Date(2027, 12, 1, 0, 0, 0, 0, time.UTC))))
	})

	t.Run("one day past three years lands in 3-5 years", func(t *testing.T) {
		assert.Equal(t, Years3to5, Classify(asOf, datep(time.Date(2027, 12, 2, 0, 0, 0, 0, time.UTC))))
	})
}

func TestAllOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 11)
	assert.Equal(t, Overdue, all[0])
	assert.Equal(t, Years5Plus, all[len(all)-1])

	names := make([]string, len(all))
	for i, b := range all {
		names[i] = b.String()
	}
	assert.Equal(t, []string{
		"Overdue", "Overnight", "1-7 days", "8-30 days", "1-3 months",
		"3-6 months", "6-12 months", "1-2 years", "2-3 years", "3-5 years",
		"5+ years",
	}, names)
}

func TestStringUnknown(t *testing.T) {
	assert.Equal(t, "unknown", Bucket(99).String())
}
