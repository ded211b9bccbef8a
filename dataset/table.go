// Package dataset provides the in-memory tabular snapshot the filter and
// analysis layers work on, plus the bounded-lifetime cache around loading it.
package dataset

import (
	"strconv"
	"time"

	"resume-dashboard/models"
)

// Kind classifies a column for filtering, export and quality reporting.
type Kind int

const (
	Text Kind = iota
	Numeric
	Time
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Time:
		return "time"
	default:
		return "text"
	}
}

// Column describes one column of the survey table.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Rowset is indexed, read-only access to survey rows. A Rowset is never
// mutated; filtering produces index views over the parent.
type Rowset interface {
	Len() int
	Columns() []Column
	// Text returns the value of a text column, "" for other kinds.
	Text(i int, col string) string
	// Number returns the value of a numeric column and whether it is
	// present. Missing values report false.
	Number(i int, col string) (float64, bool)
	// Display returns the formatted string form of any column, "" when
	// the value is missing.
	Display(i int, col string) string
	Record(i int) models.Record
}

const displayTimeLayout = "2006-01-02 15:04:05"

// Accessors are registered once per column; the engine reads through them
// in tight loops.
var (
	textGetters = map[string]func(r *models.Record) string{
		"sex":                         func(r *models.Record) string { return r.Sex },
		"employment_status":           func(r *models.Record) string { return r.EmploymentStatus },
		"income_level":                func(r *models.Record) string { return r.IncomeLevel },
		"healthcare_role":             func(r *models.Record) string { return r.HealthcareRole },
		"department":                  func(r *models.Record) string { return r.Department },
		"patient_facing":              func(r *models.Record) string { return r.PatientFacing },
		"management_responsibilities": func(r *models.Record) string { return r.ManagementResponsibilities },
		"recent_promotion":            func(r *models.Record) string { return r.RecentPromotion },
		"recent_demotion":             func(r *models.Record) string { return r.RecentDemotion },
		"mh_disorders":                func(r *models.Record) string { return r.MHDisorders },
		"substance_use_disorders":     func(r *models.Record) string { return r.SubstanceUseDisorders },
		"chronic_illnesses":           func(r *models.Record) string { return r.ChronicIllnesses },
	}

	numberGetters = map[string]func(r *models.Record) (float64, bool){
		"id":                          func(r *models.Record) (float64, bool) { return float64(r.ID), true },
		"age":                         func(r *models.Record) (float64, bool) { return float64(r.Age), true },
		"social_deprivation":          optInt(func(r *models.Record) *int { return r.SocialDeprivation }),
		"material_deprivation":        optInt(func(r *models.Record) *int { return r.MaterialDeprivation }),
		"years_experience":            optInt(func(r *models.Record) *int { return r.YearsExperience }),
		"weekly_hours":                optInt(func(r *models.Record) *int { return r.WeeklyHours }),
		"night_shifts_monthly":        optInt(func(r *models.Record) *int { return r.NightShiftsMonthly }),
		"overtime_hours_monthly":      optInt(func(r *models.Record) *int { return r.OvertimeHoursMonthly }),
		"work_stress_level":           optInt(func(r *models.Record) *int { return r.WorkStressLevel }),
		"job_satisfaction":            optInt(func(r *models.Record) *int { return r.JobSatisfaction }),
		"workplace_support":           optInt(func(r *models.Record) *int { return r.WorkplaceSupport }),
		"burnout_level":               optInt(func(r *models.Record) *int { return r.BurnoutLevel }),
		"sick_days_last_year":         optInt(func(r *models.Record) *int { return r.SickDaysLastYear }),
		"workplace_incidents":         optInt(func(r *models.Record) *int { return r.WorkplaceIncidents }),
		"history_suicidal_ideation":   optInt(func(r *models.Record) *int { return r.HistorySuicidalIdeation }),
		"previous_suicide_attempts":   optInt(func(r *models.Record) *int { return r.PreviousSuicideAttempts }),
		"frequency_suicidal_thoughts": optInt(func(r *models.Record) *int { return r.FrequencySuicidalThoughts }),
		"intensity_suicidal_thoughts": optInt(func(r *models.Record) *int { return r.IntensitySuicidalThoughts }),
		"gp_visits":                   optInt(func(r *models.Record) *int { return r.GPVisits }),
		"ed_visits":                   optInt(func(r *models.Record) *int { return r.EDVisits }),
		"hospitalizations":            optInt(func(r *models.Record) *int { return r.Hospitalizations }),
		"hopelessness":                optInt(func(r *models.Record) *int { return r.Hopelessness }),
		"despair":                     optInt(func(r *models.Record) *int { return r.Despair }),
		"impulsivity":                 optInt(func(r *models.Record) *int { return r.Impulsivity }),
		"aggression":                  optInt(func(r *models.Record) *int { return r.Aggression }),
		"access_lethal_means":         optInt(func(r *models.Record) *int { return r.AccessLethalMeans }),
		"social_isolation":            optInt(func(r *models.Record) *int { return r.SocialIsolation }),
		"coping_strategies":           optInt(func(r *models.Record) *int { return r.CopingStrategies }),
		"measured_resilience":         optInt(func(r *models.Record) *int { return r.MeasuredResilience }),
		"mh_service_engagement":       optInt(func(r *models.Record) *int { return r.MHServiceEngagement }),
		"supportive_relationships":    optInt(func(r *models.Record) *int { return r.SupportiveRelationships }),
		"suicidal_distress":           optInt(func(r *models.Record) *int { return r.SuicidalDistress }),
		"time_to_crisis":              optInt(func(r *models.Record) *int { return r.TimeToCrisis }),
		"crisis_event":                optInt(func(r *models.Record) *int { return r.CrisisEvent }),
	}

	// columnCatalog fixes column order for exports and quality tables.
	columnCatalog = []Column{
		{"id", Numeric},
		{"observation_date", Time},
		{"age", Numeric},
		{"sex", Text},
		{"employment_status", Text},
		{"income_level", Text},
		{"social_deprivation", Numeric},
		{"material_deprivation", Numeric},
		{"healthcare_role", Text},
		{"department", Text},
		{"years_experience", Numeric},
		{"weekly_hours", Numeric},
		{"night_shifts_monthly", Numeric},
		{"overtime_hours_monthly", Numeric},
		{"patient_facing", Text},
		{"management_responsibilities", Text},
		{"work_stress_level", Numeric},
		{"job_satisfaction", Numeric},
		{"workplace_support", Numeric},
		{"burnout_level", Numeric},
		{"sick_days_last_year", Numeric},
		{"workplace_incidents", Numeric},
		{"recent_promotion", Text},
		{"recent_demotion", Text},
		{"mh_disorders", Text},
		{"substance_use_disorders", Text},
		{"history_suicidal_ideation", Numeric},
		{"previous_suicide_attempts", Numeric},
		{"frequency_suicidal_thoughts", Numeric},
		{"intensity_suicidal_thoughts", Numeric},
		{"chronic_illnesses", Text},
		{"gp_visits", Numeric},
		{"ed_visits", Numeric},
		{"hospitalizations", Numeric},
		{"hopelessness", Numeric},
		{"despair", Numeric},
		{"impulsivity", Numeric},
		{"aggression", Numeric},
		{"access_lethal_means", Numeric},
		{"social_isolation", Numeric},
		{"coping_strategies", Numeric},
		{"measured_resilience", Numeric},
		{"mh_service_engagement", Numeric},
		{"supportive_relationships", Numeric},
		{"suicidal_distress", Numeric},
		{"time_to_crisis", Numeric},
		{"crisis_event", Numeric},
	}

	columnKinds = func() map[string]Kind {
		m := make(map[string]Kind, len(columnCatalog))
		for _, c := range columnCatalog {
			m[c.Name] = c.Kind
		}
		return m
	}()
)

func optInt(get func(r *models.Record) *int) func(r *models.Record) (float64, bool) {
	return func(r *models.Record) (float64, bool) {
		v := get(r)
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	}
}

// LookupColumn reports the catalog entry for a column name.
func LookupColumn(name string) (Column, bool) {
	k, ok := columnKinds[name]
	return Column{Name: name, Kind: k}, ok
}

// Table is the full in-memory snapshot of the record store.
type Table struct {
	rows     []models.Record
	LoadedAt time.Time
}

// New wraps rows in a Table. The slice is not copied; callers must treat
// it as immutable afterwards.
func New(rows []models.Record) *Table {
	return &Table{rows: rows, LoadedAt: time.Now()}
}

func (t *Table) Len() int          { return len(t.rows) }
func (t *Table) Columns() []Column { return columnCatalog }

func (t *Table) Text(i int, col string) string {
	if i < 0 || i >= len(t.rows) {
		return ""
	}
	if get, ok := textGetters[col]; ok {
		return get(&t.rows[i])
	}
	return ""
}

func (t *Table) Number(i int, col string) (float64, bool) {
	if i < 0 || i >= len(t.rows) {
		return 0, false
	}
	if get, ok := numberGetters[col]; ok {
		return get(&t.rows[i])
	}
	return 0, false
}

func (t *Table) Display(i int, col string) string {
	if i < 0 || i >= len(t.rows) {
		return ""
	}
	r := &t.rows[i]
	switch columnKinds[col] {
	case Time:
		if r.ObservationDate.IsZero() {
			return ""
		}
		return r.ObservationDate.Format(displayTimeLayout)
	case Numeric:
		v, ok := t.Number(i, col)
		if !ok {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return t.Text(i, col)
	}
}

func (t *Table) Record(i int) models.Record { return t.rows[i] }

// Rows exposes the underlying slice for bulk operations (replace, cache
// serialization). Read-only by convention.
func (t *Table) Rows() []models.Record { return t.rows }

// View is a filtered subset of a parent Rowset. It holds row indices into
// the parent, no data copy.
type View struct {
	parent  Rowset
	indices []int
}

// NewView builds a subset view over parent.
func NewView(parent Rowset, indices []int) *View {
	return &View{parent: parent, indices: indices}
}

func (v *View) Len() int          { return len(v.indices) }
func (v *View) Columns() []Column { return v.parent.Columns() }

func (v *View) Text(i int, col string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Text(v.indices[i], col)
}

func (v *View) Number(i int, col string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Number(v.indices[i], col)
}

func (v *View) Display(i int, col string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Display(v.indices[i], col)
}

func (v *View) Record(i int) models.Record { return v.parent.Record(v.indices[i]) }

// Records materializes the rows of any Rowset.
func Records(rs Rowset) []models.Record {
	out := make([]models.Record, rs.Len())
	for i := range out {
		out[i] = rs.Record(i)
	}
	return out
}
