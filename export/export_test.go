package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"resume-dashboard/dataset"
	"resume-dashboard/models"
)

func intPtr(v int) *int { return &v }

func exportRows() *dataset.Table {
	return dataset.New([]models.Record{
		{
			ID: 1, Age: 29, Sex: "Female", EmploymentStatus: "Full-time",
			HealthcareRole: "Nurse", BurnoutLevel: intPtr(6),
			ObservationDate: time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, Age: 47, Sex: "Male", EmploymentStatus: "Contract",
			HealthcareRole: "Paramedic",
			ObservationDate: time.Date(2026, 5, 3, 10, 30, 0, 0, time.UTC),
		},
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, exportRows(), FormatCSV, []string{"age", "sex", "burnout_level"})
	require.NoError(t, err)

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, []string{"age", "sex", "burnout_level"}, lines[0])
	assert.Equal(t, []string{"29", "Female", "6"}, lines[1])
	assert.Equal(t, []string{"47", "Male", ""}, lines[2])
}

func TestWriteCSVAllColumns(t *testing.T) {
	var buf bytes.Buffer
	rs := exportRows()
	require.NoError(t, Write(&buf, rs, FormatCSV, nil))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Len(t, lines[0], len(rs.Columns()))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, exportRows(), FormatJSON, []string{"age", "sex", "burnout_level"})
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, 29.0, rows[0]["age"])
	assert.Equal(t, "Female", rows[0]["sex"])
	assert.Equal(t, 6.0, rows[0]["burnout_level"])
	assert.Nil(t, rows[1]["burnout_level"], "missing numeric must export as null")
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, exportRows(), FormatExcel, []string{"age", "healthcare_role"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"age", "healthcare_role"}, rows[0])
	assert.Equal(t, "Nurse", rows[1][1])
	assert.Equal(t, "Paramedic", rows[2][1])
}

func TestWriteUnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, exportRows(), FormatCSV, []string{"no_such_column"})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, exportRows(), "xml", nil)
	assert.Error(t, err)
}

func TestContentTypes(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType(FormatCSV))
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.NotEmpty(t, ContentType(FormatExcel))
	assert.Empty(t, ContentType("xml"))
}
