package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-dashboard/dataset"
	"resume-dashboard/models"
)

func survivalRecord(ttc, event int) models.Record {
	return models.Record{
		Age: 30, Sex: "Female", EmploymentStatus: "Full-time", HealthcareRole: "Nurse",
		TimeToCrisis: intPtr(ttc), CrisisEvent: intPtr(event),
	}
}

func TestKaplanMeierHandComputed(t *testing.T) {
	// Four subjects: events at t=1, t=2 and t=4, censored at t=3.
	// S(1) = 3/4, S(2) = 3/4 * 2/3 = 1/2, S(4) = 1/2 * 0 = 0.
	rows := []models.Record{
		survivalRecord(1, 1),
		survivalRecord(2, 1),
		survivalRecord(3, 0),
		survivalRecord(4, 1),
	}

	res := Survival(dataset.New(rows))
	require.True(t, res.Available)

	require.Len(t, res.Charts, 1)
	points := res.Charts[0].Series[0].Points

	require.Len(t, points, 4)
	assert.Equal(t, Point{X: 0, Y: 1}, points[0])
	assert.Equal(t, 1.0, points[1].X)
	assert.InDelta(t, 0.75, points[1].Y, 1e-9)
	assert.Equal(t, 2.0, points[2].X)
	assert.InDelta(t, 0.5, points[2].Y, 1e-9)
	assert.Equal(t, 4.0, points[3].X)
	assert.InDelta(t, 0.0, points[3].Y, 1e-9)

	assert.Equal(t, "3", metricValue(t, res, "Events"))
	assert.Equal(t, "4", metricValue(t, res, "Observations"))
}

func TestKaplanMeierTiedEventTimes(t *testing.T) {
	rows := []models.Record{
		survivalRecord(5, 1),
		survivalRecord(5, 1),
		survivalRecord(5, 0),
		survivalRecord(9, 1),
	}

	res := Survival(dataset.New(rows))
	require.True(t, res.Available)

	points := res.Charts[0].Series[0].Points
	require.Len(t, points, 3)
	// Two of four fail at t=5.
	assert.InDelta(t, 0.5, points[1].Y, 1e-9)
	// The t=5 censoring leaves one at risk at t=9.
	assert.InDelta(t, 0.0, points[2].Y, 1e-9)
}

func TestSurvivalCurveProperties(t *testing.T) {
	rows := []models.Record{
		survivalRecord(12, 1),
		survivalRecord(40, 0),
		survivalRecord(65, 1),
		survivalRecord(90, 0),
		survivalRecord(120, 1),
		survivalRecord(200, 0),
	}

	res := Survival(dataset.New(rows))
	require.True(t, res.Available)

	points := res.Charts[0].Series[0].Points
	prev := 1.0
	for _, p := range points {
		assert.LessOrEqual(t, p.Y, prev, "curve must be non-increasing")
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 1.0)
		prev = p.Y
	}
}

func TestSurvivalDropsIncompleteRows(t *testing.T) {
	rows := []models.Record{
		survivalRecord(10, 1),
		{Age: 30, Sex: "Male", EmploymentStatus: "Full-time", HealthcareRole: "Doctor", TimeToCrisis: intPtr(20)},
		{Age: 40, Sex: "Female", EmploymentStatus: "Part-time", HealthcareRole: "Nurse", CrisisEvent: intPtr(1)},
	}

	res := Survival(dataset.New(rows))
	require.True(t, res.Available)
	assert.Equal(t, "1", metricValue(t, res, "Observations"))
}

func TestSurvivalUnavailableWithoutData(t *testing.T) {
	rows := []models.Record{
		{Age: 30, Sex: "Female", EmploymentStatus: "Full-time", HealthcareRole: "Nurse"},
	}

	res := Survival(dataset.New(rows))
	assert.False(t, res.Available)
	assert.NotEmpty(t, res.Reason)
}
