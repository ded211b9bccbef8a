package analytics

import (
	"fmt"
	"sort"

	"resume-dashboard/dataset"
)

const (
	durationCol = "time_to_crisis"
	eventCol    = "crisis_event"
)

type survivalObs struct {
	time  float64
	event bool
}

// Survival fits the Kaplan-Meier estimator on (time_to_crisis,
// crisis_event) pairs. Rows missing either value are dropped; with no
// usable rows the analysis is reported unavailable. The resulting step
// function is non-increasing and bounded by [0, 1].
func Survival(rs dataset.Rowset) *Result {
	if _, ok := dataset.LookupColumn(durationCol); !ok {
		return unavailable(ModeSurvival, "required columns not present")
	}

	obs := collectSurvivalObs(rs)
	if len(obs) == 0 {
		return unavailable(ModeSurvival, "insufficient data: no rows with both duration and event")
	}

	curve := kaplanMeier(obs)

	events := 0
	for _, o := range obs {
		if o.event {
			events++
		}
	}

	points := make([]Point, 0, len(curve)+1)
	points = append(points, Point{X: 0, Y: 1})
	for _, p := range curve {
		points = append(points, Point{X: p.time, Y: p.survival})
	}

	rows := make([][]string, 0, len(curve))
	for _, p := range curve {
		rows = append(rows, []string{
			fmt.Sprintf("%g", p.time),
			fmt.Sprintf("%d", p.atRisk),
			fmt.Sprintf("%d", p.events),
			fmt.Sprintf("%.4f", p.survival),
		})
	}

	return &Result{
		Mode:      ModeSurvival,
		Available: true,
		Metrics: []Metric{
			{Label: "Observations", Value: fmt.Sprintf("%d", len(obs))},
			{Label: "Events", Value: fmt.Sprintf("%d", events)},
		},
		Charts: []Chart{{
			Type:   "step",
			Title:  "Kaplan-Meier Survival Curve",
			XAxis:  "Days",
			YAxis:  "Survival probability",
			Series: []Series{{Name: "Overall", Points: points}},
		}},
		Tables: []Table{{
			Title:   "Survival table",
			Columns: []string{"Time", "At risk", "Events", "Survival"},
			Rows:    rows,
		}},
	}
}

func collectSurvivalObs(rs dataset.Rowset) []survivalObs {
	obs := make([]survivalObs, 0, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		t, okT := rs.Number(i, durationCol)
		e, okE := rs.Number(i, eventCol)
		if !okT || !okE || t < 0 {
			continue
		}
		obs = append(obs, survivalObs{time: t, event: e == 1})
	}
	return obs
}

type kmStep struct {
	time     float64
	atRisk   int
	events   int
	survival float64
}

// kaplanMeier computes the product-limit estimate over distinct event
// times. Censored observations reduce the risk set without a step.
func kaplanMeier(obs []survivalObs) []kmStep {
	sort.Slice(obs, func(i, j int) bool { return obs[i].time < obs[j].time })

	steps := make([]kmStep, 0)
	surv := 1.0
	atRisk := len(obs)

	i := 0
	for i < len(obs) {
		t := obs[i].time
		events := 0
		removed := 0
		for i < len(obs) && obs[i].time == t {
			if obs[i].event {
				events++
			}
			removed++
			i++
		}
		if events > 0 {
			surv *= 1 - float64(events)/float64(atRisk)
			steps = append(steps, kmStep{time: t, atRisk: atRisk, events: events, survival: surv})
		}
		atRisk -= removed
	}
	return steps
}
