package models

import (
	"fmt"
	"time"
)

// Record is one healthcare-worker survey observation. Optional numeric
// fields are pointers so a missing answer survives load, export and bulk
// replace instead of collapsing to zero.
//
// Multi-valued categoricals (MHDisorders, SubstanceUseDisorders,
// ChronicIllnesses) are stored as comma-joined text.
type Record struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Demographic & socioeconomic
	Age                 int    `gorm:"not null" json:"age"`
	Sex                 string `gorm:"not null" json:"sex"`
	EmploymentStatus    string `gorm:"not null" json:"employment_status"`
	IncomeLevel         string `json:"income_level"`
	SocialDeprivation   *int   `json:"social_deprivation"`
	MaterialDeprivation *int   `json:"material_deprivation"`

	// Occupation
	HealthcareRole             string `gorm:"not null" json:"healthcare_role"`
	Department                 string `json:"department"`
	YearsExperience            *int   `json:"years_experience"`
	WeeklyHours                *int   `json:"weekly_hours"`
	NightShiftsMonthly         *int   `json:"night_shifts_monthly"`
	OvertimeHoursMonthly       *int   `json:"overtime_hours_monthly"`
	PatientFacing              string `json:"patient_facing"`
	ManagementResponsibilities string `json:"management_responsibilities"`
	WorkStressLevel            *int   `json:"work_stress_level"`
	JobSatisfaction            *int   `json:"job_satisfaction"`
	WorkplaceSupport           *int   `json:"workplace_support"`
	BurnoutLevel               *int   `json:"burnout_level"`
	SickDaysLastYear           *int   `json:"sick_days_last_year"`
	WorkplaceIncidents         *int   `json:"workplace_incidents"`
	RecentPromotion            string `json:"recent_promotion"`
	RecentDemotion             string `json:"recent_demotion"`

	// Clinical & psychiatric
	MHDisorders               string `gorm:"column:mh_disorders" json:"mh_disorders"`
	SubstanceUseDisorders     string `json:"substance_use_disorders"`
	HistorySuicidalIdeation   *int   `json:"history_suicidal_ideation"`
	PreviousSuicideAttempts   *int   `json:"previous_suicide_attempts"`
	FrequencySuicidalThoughts *int   `json:"frequency_suicidal_thoughts"`
	IntensitySuicidalThoughts *int   `json:"intensity_suicidal_thoughts"`

	// Health & medical
	ChronicIllnesses string `json:"chronic_illnesses"`
	GPVisits         *int   `gorm:"column:gp_visits" json:"gp_visits"`
	EDVisits         *int   `gorm:"column:ed_visits" json:"ed_visits"`
	Hospitalizations *int   `json:"hospitalizations"`

	// Psychological factors (0-10 scales)
	Hopelessness      *int `json:"hopelessness"`
	Despair           *int `json:"despair"`
	Impulsivity       *int `json:"impulsivity"`
	Aggression        *int `json:"aggression"`
	AccessLethalMeans *int `json:"access_lethal_means"`
	SocialIsolation   *int `json:"social_isolation"`

	// Support & resilience (0-10 scales)
	CopingStrategies        *int `json:"coping_strategies"`
	MeasuredResilience      *int `json:"measured_resilience"`
	MHServiceEngagement     *int `gorm:"column:mh_service_engagement" json:"mh_service_engagement"`
	SupportiveRelationships *int `json:"supportive_relationships"`

	// Risk assessment
	SuicidalDistress *int      `json:"suicidal_distress"`
	TimeToCrisis     *int      `json:"time_to_crisis"`
	CrisisEvent      *int      `json:"crisis_event"`
	ObservationDate  time.Time `json:"observation_date"`
}

func (Record) TableName() string {
	return "records"
}

// scoreFields maps column name to value for every 0-10 scored field.
func (r *Record) scoreFields() map[string]*int {
	return map[string]*int{
		"social_deprivation":          r.SocialDeprivation,
		"material_deprivation":        r.MaterialDeprivation,
		"work_stress_level":           r.WorkStressLevel,
		"job_satisfaction":            r.JobSatisfaction,
		"workplace_support":           r.WorkplaceSupport,
		"burnout_level":               r.BurnoutLevel,
		"frequency_suicidal_thoughts": r.FrequencySuicidalThoughts,
		"intensity_suicidal_thoughts": r.IntensitySuicidalThoughts,
		"hopelessness":                r.Hopelessness,
		"despair":                     r.Despair,
		"impulsivity":                 r.Impulsivity,
		"aggression":                  r.Aggression,
		"access_lethal_means":         r.AccessLethalMeans,
		"social_isolation":            r.SocialIsolation,
		"coping_strategies":           r.CopingStrategies,
		"measured_resilience":         r.MeasuredResilience,
		"mh_service_engagement":       r.MHServiceEngagement,
		"supportive_relationships":    r.SupportiveRelationships,
		"suicidal_distress":           r.SuicidalDistress,
	}
}

// Validate checks entry invariants before anything is persisted.
func (r *Record) Validate() error {
	if r.Age < 18 || r.Age > 100 {
		return fmt.Errorf("%w: age must be between 18 and 100", ErrValidation)
	}

	required := map[string]string{
		"sex":               r.Sex,
		"employment_status": r.EmploymentStatus,
		"healthcare_role":   r.HealthcareRole,
	}
	for field, val := range required {
		if val == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}

	for field, val := range r.scoreFields() {
		if val != nil && (*val < 0 || *val > 10) {
			return fmt.Errorf("%w: %s must be between 0 and 10", ErrValidation, field)
		}
	}

	if r.TimeToCrisis != nil && *r.TimeToCrisis < 0 {
		return fmt.Errorf("%w: time_to_crisis must be >= 0", ErrValidation)
	}
	if r.CrisisEvent != nil && *r.CrisisEvent != 0 && *r.CrisisEvent != 1 {
		return fmt.Errorf("%w: crisis_event must be 0 or 1", ErrValidation)
	}

	return nil
}
