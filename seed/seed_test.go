package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCountAndValidity(t *testing.T) {
	recs := Generate(200, 42)
	require.Len(t, recs, 200)

	for i := range recs {
		require.NoError(t, recs[i].Validate(), "record %d", i)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(50, 42)
	b := Generate(50, 42)

	for i := range a {
		// Observation dates depend on the clock; compare the rest.
		a[i].ObservationDate = time.Time{}
		b[i].ObservationDate = time.Time{}
	}
	assert.Equal(t, a, b)
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a := Generate(50, 1)
	b := Generate(50, 2)

	same := true
	for i := range a {
		if a[i].Age != b[i].Age || *a[i].WorkStressLevel != *b[i].WorkStressLevel {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds must produce different cohorts")
}

func TestGenerateCorrelations(t *testing.T) {
	recs := Generate(1000, 42)

	// Burnout tracks work stress: compare mean burnout between the low-
	// and high-stress halves.
	var lowSum, lowN, highSum, highN float64
	for i := range recs {
		stress := float64(*recs[i].WorkStressLevel)
		burnout := float64(*recs[i].BurnoutLevel)
		if stress <= 3 {
			lowSum += burnout
			lowN++
		} else if stress >= 7 {
			highSum += burnout
			highN++
		}
	}
	require.Positive(t, lowN)
	require.Positive(t, highN)
	assert.Greater(t, highSum/highN, lowSum/lowN, "burnout must rise with stress")

	// Higher distress must shorten time to crisis on average.
	var calmSum, calmN, distressedSum, distressedN float64
	for i := range recs {
		d := float64(*recs[i].SuicidalDistress)
		ttc := float64(*recs[i].TimeToCrisis)
		if d <= 2 {
			calmSum += ttc
			calmN++
		} else if d >= 6 {
			distressedSum += ttc
			distressedN++
		}
	}
	require.Positive(t, calmN)
	require.Positive(t, distressedN)
	assert.Less(t, distressedSum/distressedN, calmSum/calmN)
}

func TestGenerateDatesWithinLastYear(t *testing.T) {
	recs := Generate(100, 42)
	now := time.Now()
	yearAgo := now.AddDate(0, 0, -366)

	for i := range recs {
		assert.False(t, recs[i].ObservationDate.After(now))
		assert.True(t, recs[i].ObservationDate.After(yearAgo))
	}
}
