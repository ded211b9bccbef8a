package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"resume-dashboard/dataset"
)

// CoxCovariates is the fixed covariate set of the hazards regression.
var CoxCovariates = []string{"age", "work_stress_level", "burnout_level", "social_isolation"}

const (
	coxMaxIter = 100
	coxTol     = 1e-9
)

// Cox fits a proportional-hazards model (Breslow handling of ties) on the
// duration/event columns plus the fixed covariate set. Rows with any
// missing value are dropped first; zero usable rows or a fit that does not
// converge yield an unavailable result. The output includes per-covariate
// hazard ratios and a partial-effects survival curve for one covariate.
func Cox(rs dataset.Rowset, covariate string, values []float64) *Result {
	if covariate == "" {
		covariate = "work_stress_level"
	}
	covIdx := -1
	for i, c := range CoxCovariates {
		if c == covariate {
			covIdx = i
		}
	}
	if covIdx < 0 {
		return unavailable(ModeCox, fmt.Sprintf("unknown covariate %q", covariate))
	}
	if len(values) == 0 {
		values = defaultEffectValues(covariate)
	}

	d, ok := collectCoxData(rs)
	if !ok {
		return unavailable(ModeCox, "insufficient data after dropping rows with missing values")
	}

	fit, err := fitCox(d)
	if err != nil {
		return unavailable(ModeCox, err.Error())
	}

	events := 0
	for _, e := range d.event {
		if e {
			events++
		}
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	covRows := make([][]string, 0, len(CoxCovariates))
	for i, name := range CoxCovariates {
		coef := fit.coef[i]
		se := fit.se[i]
		z := 0.0
		if se > 0 {
			z = coef / se
		}
		p := 2 * normal.Survival(math.Abs(z))
		covRows = append(covRows, []string{
			name,
			fmt.Sprintf("%.4f", coef),
			fmt.Sprintf("%.4f", math.Exp(coef)),
			fmt.Sprintf("%.4f", se),
			fmt.Sprintf("%.3f", z),
			fmt.Sprintf("%.4f", p),
		})
	}

	effect := partialEffects(d, fit, covIdx, values)

	return &Result{
		Mode:      ModeCox,
		Available: true,
		Metrics: []Metric{
			{Label: "Observations", Value: fmt.Sprintf("%d", len(d.time))},
			{Label: "Events", Value: fmt.Sprintf("%d", events)},
			{Label: "Log-likelihood", Value: fmt.Sprintf("%.3f", fit.loglik)},
		},
		Tables: []Table{{
			Title:   "Cox Proportional Hazards",
			Columns: []string{"Covariate", "coef", "exp(coef)", "se(coef)", "z", "p"},
			Rows:    covRows,
		}},
		Charts: []Chart{effect},
	}
}

func defaultEffectValues(covariate string) []float64 {
	if covariate == "age" {
		return []float64{25, 35, 45, 55, 65}
	}
	// 0-10 scored covariates
	return []float64{0, 2, 4, 6, 8, 10}
}

type coxData struct {
	time  []float64
	event []bool
	x     [][]float64 // standardized covariates, row-major
	mean  []float64
	sd    []float64
}

func collectCoxData(rs dataset.Rowset) (*coxData, bool) {
	p := len(CoxCovariates)
	d := &coxData{mean: make([]float64, p), sd: make([]float64, p)}

rows:
	for i := 0; i < rs.Len(); i++ {
		t, okT := rs.Number(i, durationCol)
		e, okE := rs.Number(i, eventCol)
		if !okT || !okE {
			continue
		}
		row := make([]float64, p)
		for j, col := range CoxCovariates {
			v, ok := rs.Number(i, col)
			if !ok {
				continue rows
			}
			row[j] = v
		}
		d.time = append(d.time, t)
		d.event = append(d.event, e == 1)
		d.x = append(d.x, row)
	}

	if len(d.time) == 0 {
		return nil, false
	}

	// Standardize covariates for a well-conditioned Newton iteration;
	// coefficients are transformed back after the fit.
	n := float64(len(d.x))
	for j := 0; j < p; j++ {
		var sum float64
		for _, row := range d.x {
			sum += row[j]
		}
		mean := sum / n
		var ss float64
		for _, row := range d.x {
			diff := row[j] - mean
			ss += diff * diff
		}
		sd := math.Sqrt(ss / n)
		if sd == 0 {
			sd = 1
		}
		d.mean[j] = mean
		d.sd[j] = sd
		for _, row := range d.x {
			row[j] = (row[j] - mean) / sd
		}
	}

	return d, true
}

type coxFit struct {
	coef   []float64 // original covariate scale
	se     []float64
	beta   []float64 // standardized scale, for baseline hazard work
	loglik float64
}

// fitCox maximizes the Breslow partial likelihood by Newton-Raphson with
// step-halving.
func fitCox(d *coxData) (*coxFit, error) {
	p := len(CoxCovariates)
	beta := make([]float64, p)

	loglik, grad, hess := coxDerivatives(d, beta)

	for iter := 0; iter < coxMaxIter; iter++ {
		step, err := solveNewtonStep(hess, grad)
		if err != nil {
			return nil, fmt.Errorf("model did not converge: %w", err)
		}

		// Step-halving keeps the iteration inside the likelihood's
		// well-behaved region.
		scale := 1.0
		var next []float64
		var nextLL float64
		var nextGrad []float64
		var nextHess *mat.SymDense
		for {
			next = make([]float64, p)
			for j := 0; j < p; j++ {
				next[j] = beta[j] + scale*step[j]
			}
			nextLL, nextGrad, nextHess = coxDerivatives(d, next)
			if !math.IsNaN(nextLL) && !math.IsInf(nextLL, 0) && nextLL >= loglik-1e-12 {
				break
			}
			scale /= 2
			if scale < 1e-10 {
				return nil, fmt.Errorf("model did not converge: step size underflow")
			}
		}

		improved := nextLL - loglik
		beta, loglik, grad, hess = next, nextLL, nextGrad, nextHess

		if math.Abs(improved) < coxTol {
			break
		}
	}

	// Variance from the inverse observed information.
	var chol mat.Cholesky
	if ok := chol.Factorize(hess); !ok {
		return nil, fmt.Errorf("model did not converge: singular information matrix")
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("model did not converge: %w", err)
	}

	fit := &coxFit{
		coef:   make([]float64, p),
		se:     make([]float64, p),
		beta:   beta,
		loglik: loglik,
	}
	for j := 0; j < p; j++ {
		fit.coef[j] = beta[j] / d.sd[j]
		fit.se[j] = math.Sqrt(inv.At(j, j)) / d.sd[j]
	}
	return fit, nil
}

// coxDerivatives computes the Breslow partial log-likelihood with its
// gradient and observed information at beta. A single sweep from the
// largest time downward maintains the risk-set sums.
func coxDerivatives(d *coxData, beta []float64) (float64, []float64, *mat.SymDense) {
	n := len(d.time)
	p := len(beta)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return d.time[order[a]] < d.time[order[b]] })

	var loglik float64
	grad := make([]float64, p)
	hess := mat.NewSymDense(p, nil)

	var s0 float64
	s1 := make([]float64, p)
	s2 := mat.NewSymDense(p, nil)

	k := n - 1
	for k >= 0 {
		t := d.time[order[k]]

		// Absorb all rows tied at this time into the risk set.
		groupStart := k
		for k >= 0 && d.time[order[k]] == t {
			i := order[k]
			eta := 0.0
			for j := 0; j < p; j++ {
				eta += beta[j] * d.x[i][j]
			}
			w := math.Exp(eta)
			s0 += w
			for j := 0; j < p; j++ {
				s1[j] += w * d.x[i][j]
				for l := j; l < p; l++ {
					s2.SetSym(j, l, s2.At(j, l)+w*d.x[i][j]*d.x[i][l])
				}
			}
			k--
		}

		// Contribution of the events at this time.
		events := 0
		sumEta := 0.0
		sumX := make([]float64, p)
		for g := groupStart; g > k; g-- {
			i := order[g]
			if !d.event[i] {
				continue
			}
			events++
			for j := 0; j < p; j++ {
				sumEta += beta[j] * d.x[i][j]
				sumX[j] += d.x[i][j]
			}
		}
		if events == 0 {
			continue
		}

		de := float64(events)
		loglik += sumEta - de*math.Log(s0)
		for j := 0; j < p; j++ {
			grad[j] += sumX[j] - de*s1[j]/s0
			for l := j; l < p; l++ {
				hess.SetSym(j, l, hess.At(j, l)+de*(s2.At(j, l)/s0-(s1[j]/s0)*(s1[l]/s0)))
			}
		}
	}

	return loglik, grad, hess
}

func solveNewtonStep(hess *mat.SymDense, grad []float64) ([]float64, error) {
	p := len(grad)
	var chol mat.Cholesky
	if ok := chol.Factorize(hess); !ok {
		return nil, fmt.Errorf("information matrix not positive definite")
	}
	g := mat.NewVecDense(p, grad)
	var step mat.VecDense
	if err := chol.SolveVecTo(&step, g); err != nil {
		return nil, err
	}
	out := make([]float64, p)
	for j := 0; j < p; j++ {
		out[j] = step.AtVec(j)
	}
	return out, nil
}

// partialEffects derives the Breslow baseline survival (covariates at
// their means) and scales it for chosen values of one covariate, the way
// the original dashboard plotted stress-level effects.
func partialEffects(d *coxData, fit *coxFit, covIdx int, values []float64) Chart {
	type baseStep struct {
		time   float64
		cumHaz float64
	}

	n := len(d.time)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return d.time[order[a]] < d.time[order[b]] })

	// Risk-set sums from the largest time down, then event-time steps in
	// ascending order.
	s0At := make(map[float64]float64)
	eventsAt := make(map[float64]int)
	eventTimes := make([]float64, 0)

	var s0 float64
	k := n - 1
	for k >= 0 {
		t := d.time[order[k]]
		events := 0
		for k >= 0 && d.time[order[k]] == t {
			i := order[k]
			eta := 0.0
			for j := range fit.beta {
				eta += fit.beta[j] * d.x[i][j]
			}
			s0 += math.Exp(eta)
			if d.event[i] {
				events++
			}
			k--
		}
		if events > 0 {
			s0At[t] = s0
			eventsAt[t] = events
			eventTimes = append(eventTimes, t)
		}
	}
	sort.Float64s(eventTimes)

	base := make([]baseStep, 0, len(eventTimes))
	cum := 0.0
	for _, t := range eventTimes {
		cum += float64(eventsAt[t]) / s0At[t]
		base = append(base, baseStep{time: t, cumHaz: cum})
	}

	series := make([]Series, 0, len(values))
	for _, v := range values {
		// Standardized distance of this value from the covariate mean;
		// the other covariates stay at their means (zero after scaling).
		lp := fit.beta[covIdx] * (v - d.mean[covIdx]) / d.sd[covIdx]
		hr := math.Exp(lp)

		points := make([]Point, 0, len(base)+1)
		points = append(points, Point{X: 0, Y: 1})
		for _, b := range base {
			points = append(points, Point{X: b.time, Y: math.Exp(-b.cumHaz * hr)})
		}
		series = append(series, Series{
			Name:   fmt.Sprintf("%s=%g", CoxCovariates[covIdx], v),
			Points: points,
		})
	}

	return Chart{
		Type:   "step",
		Title:  "Partial effects of " + CoxCovariates[covIdx],
		XAxis:  "Days",
		YAxis:  "Survival probability",
		Series: series,
	}
}
