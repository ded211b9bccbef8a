// Package analytics implements the filter engine and the analysis pipeline
// over a dataset.Rowset: descriptive aggregation, Kaplan-Meier survival
// estimation, Cox proportional-hazards regression, and gradient-boosted
// classification with per-instance feature attributions. Every analysis is
// stateless and works on a read-only view; data-shape shortfalls produce an
// unavailable Result, never an error.
package analytics

// Analysis modes accepted by Analyze.
const (
	ModeDescriptive    = "descriptive"
	ModeSurvival       = "survival"
	ModeCox            = "cox"
	ModeClassification = "classification"
)

// Result is the render-ready output bundle of one analysis run.
type Result struct {
	Mode      string `json:"mode"`
	Available bool   `json:"available"`
	// Reason explains an unavailable result ("insufficient data", missing
	// columns). Empty when Available.
	Reason string `json:"reason,omitempty"`

	Metrics []Metric `json:"metrics,omitempty"`
	Charts  []Chart  `json:"charts,omitempty"`
	Tables  []Table  `json:"tables,omitempty"`

	// Attributions carries per-instance additive explanations in
	// classification mode.
	Attributions *AttributionSet `json:"attributions,omitempty"`
}

// Metric is a headline label/value pair.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Chart is a frontend-renderable series collection.
type Chart struct {
	Type   string   `json:"type"` // "step", "line", "bar", "pie"
	Title  string   `json:"title"`
	XAxis  string   `json:"x_axis,omitempty"`
	YAxis  string   `json:"y_axis,omitempty"`
	Series []Series `json:"series"`
}

// Series is one named sequence of points within a chart.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Point is a single chart point. Label carries the categorical axis value
// for bar/pie charts; X/Y carry numeric coordinates otherwise.
type Point struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Table is a render-ready table of formatted cells.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// AttributionSet holds additive feature attributions for a scored
// partition. For every row: Baseline + sum(Values) == Margin.
type AttributionSet struct {
	Features []string         `json:"features"`
	Baseline float64          `json:"baseline"`
	Rows     []RowAttribution `json:"rows"`
}

// RowAttribution explains a single instance. Index refers to the row's
// position in the analyzed rowset; Margin is the model output in log-odds.
type RowAttribution struct {
	Index  int       `json:"index"`
	Values []float64 `json:"values"`
	Margin float64   `json:"margin"`
}

func unavailable(mode, reason string) *Result {
	return &Result{Mode: mode, Available: false, Reason: reason}
}
