// Package seed generates synthetic survey records for demos and tests.
package seed

import (
	"math"
	"math/rand"
	"time"

	"resume-dashboard/models"
)

var (
	healthcareRoles = []string{
		"Doctor", "Nurse", "Admin Staff", "Paramedic", "Technician",
		"Therapist", "Pharmacist", "Midwife", "Healthcare Assistant",
	}
	departments = []string{
		"Emergency", "Surgery", "Pediatrics", "Oncology", "Cardiology",
		"Neurology", "Psychiatry", "Radiology", "General Practice",
		"Intensive Care", "Obstetrics", "Geriatrics", "Administration",
	}
	mhDisorders = []string{
		"None", "Depression", "Anxiety", "Bipolar", "PTSD",
		"Depression, Anxiety", "Multiple",
	}
	// "None" repeats to weight toward no disorder.
	substanceDisorders = []string{
		"None", "Alcohol", "Cannabis", "Prescription Drugs",
		"Multiple", "None", "None",
	}
	chronicIllnesses = []string{
		"None", "Diabetes", "Hypertension", "Asthma",
		"Multiple", "None", "None",
	}
	incomeLevels      = []string{"Low", "Medium", "High"}
	employmentChoices = []string{"Full-time", "Part-time", "Contract", "Temporary"}
)

// Generate returns n synthetic records. Risk factors are correlated: burnout
// tracks work stress and overtime, distress aggregates the psychological
// scores, and crisis timing/events follow distress. The same seed yields the
// same records.
func Generate(n int, seed int64) []models.Record {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	records := make([]models.Record, n)
	for i := range records {
		r := &records[i]

		r.Age = 22 + rng.Intn(49)
		r.Sex = weightedChoice(rng, []string{"Male", "Female", "Other"}, []float64{0.45, 0.50, 0.05})
		r.EmploymentStatus = pick(rng, employmentChoices)
		r.IncomeLevel = pick(rng, incomeLevels)
		r.SocialDeprivation = intp(rng.Intn(11))
		r.MaterialDeprivation = intp(rng.Intn(11))

		r.HealthcareRole = pick(rng, healthcareRoles)
		r.Department = pick(rng, departments)
		r.YearsExperience = intp(rng.Intn(41))
		r.WeeklyHours = intp(20 + rng.Intn(41))
		r.NightShiftsMonthly = intp(rng.Intn(13))
		r.OvertimeHoursMonthly = intp(rng.Intn(41))
		r.PatientFacing = yesNo(rng, 0.5)
		r.ManagementResponsibilities = yesNo(rng, 0.5)
		r.WorkStressLevel = intp(rng.Intn(11))
		r.WorkplaceSupport = intp(rng.Intn(11))
		r.SickDaysLastYear = intp(rng.Intn(31))
		r.WorkplaceIncidents = intp(rng.Intn(6))
		r.RecentPromotion = yesNo(rng, 0.2)
		r.RecentDemotion = yesNo(rng, 0.05)

		r.MHDisorders = pick(rng, mhDisorders)
		r.SubstanceUseDisorders = pick(rng, substanceDisorders)
		r.HistorySuicidalIdeation = intp(bernoulli(rng, 0.2))
		r.PreviousSuicideAttempts = intp(weightedInt(rng, []int{0, 1, 2, 3}, []float64{0.85, 0.1, 0.03, 0.02}))
		r.FrequencySuicidalThoughts = intp(rng.Intn(11))
		r.IntensitySuicidalThoughts = intp(rng.Intn(11))

		r.ChronicIllnesses = pick(rng, chronicIllnesses)
		r.GPVisits = intp(rng.Intn(21))
		r.EDVisits = intp(rng.Intn(11))
		r.Hospitalizations = intp(rng.Intn(6))

		r.Hopelessness = intp(rng.Intn(11))
		r.Despair = intp(rng.Intn(11))
		r.Impulsivity = intp(rng.Intn(11))
		r.Aggression = intp(rng.Intn(11))
		r.AccessLethalMeans = intp(rng.Intn(11))
		r.SocialIsolation = intp(rng.Intn(11))

		r.CopingStrategies = intp(rng.Intn(11))
		r.MeasuredResilience = intp(rng.Intn(11))
		r.MHServiceEngagement = intp(rng.Intn(11))
		r.SupportiveRelationships = intp(rng.Intn(11))

		// Burnout tracks stress and overtime; satisfaction moves opposite.
		burnout := clampScore(float64(*r.WorkStressLevel)*0.4 +
			float64(*r.OvertimeHoursMonthly)*0.1 +
			rng.NormFloat64())
		r.BurnoutLevel = intp(burnout)

		r.JobSatisfaction = intp(clampScore(10 - float64(burnout)*0.7 + rng.NormFloat64()))

		distress := clampScore(
			0.2*float64(*r.Hopelessness) +
				0.2*float64(*r.Despair) +
				0.15*float64(*r.SocialIsolation) +
				0.15*float64(burnout) +
				0.1*float64(*r.WorkStressLevel) +
				0.1*float64(*r.AccessLethalMeans) -
				0.1*float64(*r.SupportiveRelationships) -
				0.1*float64(*r.JobSatisfaction) +
				rng.NormFloat64())
		r.SuicidalDistress = intp(distress)

		// Higher distress shortens time to crisis and raises event odds.
		ttc := 365*(1-float64(distress)/15) + rng.NormFloat64()*30
		r.TimeToCrisis = intp(int(clamp(ttc, 7, 365)))
		r.CrisisEvent = intp(bernoulli(rng, float64(distress)/15))

		r.ObservationDate = now.AddDate(0, 0, -rng.Intn(365))
	}
	return records
}

func intp(v int) *int { return &v }

func pick(rng *rand.Rand, opts []string) string {
	return opts[rng.Intn(len(opts))]
}

func yesNo(rng *rand.Rand, pYes float64) string {
	if rng.Float64() < pYes {
		return "Yes"
	}
	return "No"
}

func bernoulli(rng *rand.Rand, p float64) int {
	if rng.Float64() < p {
		return 1
	}
	return 0
}

func weightedChoice(rng *rand.Rand, opts []string, weights []float64) string {
	u := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return opts[i]
		}
	}
	return opts[len(opts)-1]
}

func weightedInt(rng *rand.Rand, opts []int, weights []float64) int {
	u := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return opts[i]
		}
	}
	return opts[len(opts)-1]
}

func clampScore(v float64) int {
	return int(clamp(v, 0, 10))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
