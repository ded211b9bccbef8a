package analytics

import (
	"fmt"
	"time"

	"resume-dashboard/dataset"
	"resume-dashboard/monitoring"
)

// Params selects the optional knobs of an analysis run. Zero values fall
// back to per-mode defaults.
type Params struct {
	GroupBy         string    `json:"group_by"`
	Covariate       string    `json:"covariate"`
	CovariateValues []float64 `json:"covariate_values"`
}

// Analyze dispatches to the requested analysis mode.
func Analyze(rs dataset.Rowset, mode string, p Params) (*Result, error) {
	start := time.Now()
	defer func() {
		monitoring.AnalysisDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	switch mode {
	case ModeDescriptive:
		return Descriptive(rs, p.GroupBy), nil
	case ModeSurvival:
		return Survival(rs), nil
	case ModeCox:
		return Cox(rs, p.Covariate, p.CovariateValues), nil
	case ModeClassification:
		return Classify(rs), nil
	default:
		return nil, fmt.Errorf("unknown analysis mode %q", mode)
	}
}
