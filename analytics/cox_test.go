package analytics

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-dashboard/dataset"
	"resume-dashboard/models"
)

// coxTestRows builds a cohort where higher work stress shortens time to
// crisis, with the other covariates uncorrelated noise.
func coxTestRows(n int) *dataset.Table {
	rng := rand.New(rand.NewSource(7))
	rows := make([]models.Record, n)
	for i := range rows {
		stress := rng.Intn(11)
		burnout := rng.Intn(11)
		isolation := rng.Intn(11)
		age := 25 + rng.Intn(40)

		// Exponential-ish times with hazard rising in stress.
		base := 300.0 - 22.0*float64(stress) + rng.NormFloat64()*20
		if base < 5 {
			base = 5
		}
		ttc := int(base)

		event := 0
		if rng.Float64() < 0.3+0.05*float64(stress) {
			event = 1
		}

		rows[i] = models.Record{
			Age: age, Sex: "Female", EmploymentStatus: "Full-time", HealthcareRole: "Nurse",
			WorkStressLevel: intPtr(stress),
			BurnoutLevel:    intPtr(burnout),
			SocialIsolation: intPtr(isolation),
			TimeToCrisis:    intPtr(ttc),
			CrisisEvent:     intPtr(event),
		}
	}
	return dataset.New(rows)
}

func covariateRow(t *testing.T, res *Result, name string) []string {
	t.Helper()
	require.NotEmpty(t, res.Tables)
	for _, row := range res.Tables[0].Rows {
		if row[0] == name {
			return row
		}
	}
	t.Fatalf("covariate %q not in table", name)
	return nil
}

func TestCoxStressIncreasesHazard(t *testing.T) {
	res := Cox(coxTestRows(400), "work_stress_level", nil)
	require.True(t, res.Available, "reason: %s", res.Reason)

	row := covariateRow(t, res, "work_stress_level")
	coef, err := strconv.ParseFloat(row[1], 64)
	require.NoError(t, err)
	assert.Positive(t, coef, "stress must raise the hazard in this cohort")

	hr, err := strconv.ParseFloat(row[2], 64)
	require.NoError(t, err)
	assert.Greater(t, hr, 1.0)

	se, err := strconv.ParseFloat(row[3], 64)
	require.NoError(t, err)
	assert.Positive(t, se)

	p, err := strconv.ParseFloat(row[5], 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestCoxReportsAllCovariates(t *testing.T) {
	res := Cox(coxTestRows(300), "", nil)
	require.True(t, res.Available, "reason: %s", res.Reason)

	require.Len(t, res.Tables[0].Rows, len(CoxCovariates))
	for _, name := range CoxCovariates {
		covariateRow(t, res, name)
	}
}

func TestCoxPartialEffectCurves(t *testing.T) {
	res := Cox(coxTestRows(300), "work_stress_level", []float64{0, 5, 10})
	require.True(t, res.Available, "reason: %s", res.Reason)

	require.Len(t, res.Charts, 1)
	chart := res.Charts[0]
	assert.Equal(t, "step", chart.Type)
	require.Len(t, chart.Series, 3)

	for _, s := range chart.Series {
		prev := 1.0
		require.NotEmpty(t, s.Points)
		assert.Equal(t, Point{X: 0, Y: 1}, s.Points[0])
		for _, p := range s.Points {
			assert.LessOrEqual(t, p.Y, prev+1e-12, "series %s must be non-increasing", s.Name)
			assert.GreaterOrEqual(t, p.Y, 0.0)
			prev = p.Y
		}
	}

	// Higher stress must sit below lower stress at the last event time.
	low := chart.Series[0].Points
	high := chart.Series[2].Points
	require.Equal(t, len(low), len(high))
	assert.Less(t, high[len(high)-1].Y, low[len(low)-1].Y)
}

func TestCoxUnknownCovariate(t *testing.T) {
	res := Cox(coxTestRows(50), "shoe_size", nil)
	assert.False(t, res.Available)
}

func TestCoxInsufficientData(t *testing.T) {
	rows := []models.Record{
		{Age: 30, Sex: "Female", EmploymentStatus: "Full-time", HealthcareRole: "Nurse"},
	}
	res := Cox(dataset.New(rows), "", nil)
	assert.False(t, res.Available)
	assert.NotEmpty(t, res.Reason)
}
