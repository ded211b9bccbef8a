package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-dashboard/models"
)

func intPtr(v int) *int { return &v }

func sampleRows() []models.Record {
	return []models.Record{
		{
			ID:               1,
			Age:              30,
			Sex:              "Female",
			EmploymentStatus: "Full-time",
			HealthcareRole:   "Nurse",
			BurnoutLevel:     intPtr(7),
			ObservationDate:  time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:               2,
			Age:              45,
			Sex:              "Male",
			EmploymentStatus: "Part-time",
			HealthcareRole:   "Doctor",
			ObservationDate:  time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC),
		},
	}
}

func TestTableAccessors(t *testing.T) {
	tbl := New(sampleRows())

	assert.Equal(t, 2, tbl.Len())

	assert.Equal(t, "Female", tbl.Text(0, "sex"))
	assert.Equal(t, "Doctor", tbl.Text(1, "healthcare_role"))
	assert.Empty(t, tbl.Text(0, "no_such_column"))

	v, ok := tbl.Number(0, "age")
	require.True(t, ok)
	assert.Equal(t, 30.0, v)

	v, ok = tbl.Number(0, "burnout_level")
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = tbl.Number(1, "burnout_level")
	assert.False(t, ok, "missing optional value must report absence")
}

func TestTableDisplay(t *testing.T) {
	tbl := New(sampleRows())

	assert.Equal(t, "30", tbl.Display(0, "age"))
	assert.Equal(t, "7", tbl.Display(0, "burnout_level"))
	assert.Equal(t, "", tbl.Display(1, "burnout_level"))
	assert.Equal(t, "2026-03-15 09:30:00", tbl.Display(0, "observation_date"))
}

func TestLookupColumn(t *testing.T) {
	col, ok := LookupColumn("work_stress_level")
	require.True(t, ok)
	assert.Equal(t, Numeric, col.Kind)

	col, ok = LookupColumn("sex")
	require.True(t, ok)
	assert.Equal(t, Text, col.Kind)

	_, ok = LookupColumn("not_a_column")
	assert.False(t, ok)
}

func TestViewDelegation(t *testing.T) {
	tbl := New(sampleRows())
	view := NewView(tbl, []int{1})

	assert.Equal(t, 1, view.Len())
	assert.Equal(t, "Male", view.Text(0, "sex"))
	v, ok := view.Number(0, "age")
	require.True(t, ok)
	assert.Equal(t, 45.0, v)
	assert.Equal(t, uint(2), view.Record(0).ID)
	assert.Equal(t, tbl.Columns(), view.Columns())
}

func TestQuality(t *testing.T) {
	tbl := New(sampleRows())

	var burnout, sex ColumnQuality
	for _, q := range Quality(tbl) {
		switch q.Name {
		case "burnout_level":
			burnout = q
		case "sex":
			sex = q
		}
	}

	assert.Equal(t, 1, burnout.Missing)
	assert.InDelta(t, 50.0, burnout.MissingPct, 1e-9)
	assert.Equal(t, 1, burnout.Unique)

	assert.Zero(t, sex.Missing)
	assert.Equal(t, 2, sex.Unique)
}

func TestRecordsMaterializesView(t *testing.T) {
	tbl := New(sampleRows())
	view := NewView(tbl, []int{1, 0})

	recs := Records(view)
	require.Len(t, recs, 2)
	assert.Equal(t, uint(2), recs[0].ID)
	assert.Equal(t, uint(1), recs[1].ID)
}
