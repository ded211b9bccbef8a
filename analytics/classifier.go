package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"resume-dashboard/dataset"
)

// ClassifierFeatures is the fixed feature set of classification mode.
var ClassifierFeatures = []string{
	"age",
	"work_stress_level",
	"burnout_level",
	"social_isolation",
	"hopelessness",
	"despair",
}

// classifierSeed fixes the train/test shuffle for reproducible runs.
const classifierSeed = 42

// Classify trains a gradient-boosted binary classifier for crisis events
// on the fixed feature set, with column-mean imputation and a seeded 80/20
// split. It reports ranked feature importance, held-out AUC-ROC, and exact
// additive per-instance attributions for the test partition.
func Classify(rs dataset.Rowset) *Result {
	x, y, ok := collectClassifierData(rs)
	if !ok {
		return unavailable(ModeClassification, "insufficient data: no rows with a crisis_event label")
	}
	if singleClass(y) {
		return unavailable(ModeClassification, "insufficient data: only one outcome class present")
	}

	n := len(x)
	testN := n / 5
	if testN == 0 {
		testN = 1
	}
	if n-testN == 0 {
		return unavailable(ModeClassification, "insufficient data: not enough rows to split")
	}

	perm := rand.New(rand.NewSource(classifierSeed)).Perm(n)
	testIdx := perm[:testN]
	trainIdx := perm[testN:]

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, j := range trainIdx {
		trainX[i] = x[j]
		trainY[i] = y[j]
	}

	model := trainGBM(trainX, trainY, len(ClassifierFeatures), defaultGBMConfig())

	res := &Result{Mode: ModeClassification, Available: true}
	res.Metrics = append(res.Metrics,
		Metric{Label: "Training rows", Value: fmt.Sprintf("%d", len(trainIdx))},
		Metric{Label: "Test rows", Value: fmt.Sprintf("%d", len(testIdx))},
	)

	scores := make([]float64, len(testIdx))
	classes := make([]bool, len(testIdx))
	for i, j := range testIdx {
		scores[i] = model.predictProba(x[j])
		classes[i] = y[j] == 1
	}
	if auc, ok := aucROC(scores, classes); ok {
		res.Metrics = append(res.Metrics, Metric{Label: "AUC-ROC", Value: fmt.Sprintf("%.3f", auc)})
	} else {
		res.Metrics = append(res.Metrics, Metric{Label: "AUC-ROC", Value: "n/a"})
	}

	res.Charts = append(res.Charts, importanceChart(model))
	res.Attributions = testAttributions(model, x, testIdx)
	res.Charts = append(res.Charts, shapSummaryChart(res.Attributions))

	return res
}

// collectClassifierData builds the feature matrix for rows with a label,
// imputing missing feature values by column mean.
func collectClassifierData(rs dataset.Rowset) ([][]float64, []float64, bool) {
	p := len(ClassifierFeatures)

	var x [][]float64
	var y []float64
	var present [][]bool

	for i := 0; i < rs.Len(); i++ {
		label, ok := rs.Number(i, eventCol)
		if !ok || (label != 0 && label != 1) {
			continue
		}
		row := make([]float64, p)
		has := make([]bool, p)
		for j, col := range ClassifierFeatures {
			if v, ok := rs.Number(i, col); ok {
				row[j] = v
				has[j] = true
			}
		}
		x = append(x, row)
		present = append(present, has)
		y = append(y, label)
	}

	if len(x) == 0 {
		return nil, nil, false
	}

	for j := 0; j < p; j++ {
		var known []float64
		for i := range x {
			if present[i][j] {
				known = append(known, x[i][j])
			}
		}
		mean := 0.0
		if len(known) > 0 {
			mean = stat.Mean(known, nil)
		}
		for i := range x {
			if !present[i][j] {
				x[i][j] = mean
			}
		}
	}

	return x, y, true
}

func singleClass(y []float64) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}

// aucROC computes the area under the ROC curve for probability scores.
func aucROC(scores []float64, classes []bool) (float64, bool) {
	pos, neg := 0, 0
	for _, c := range classes {
		if c {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, false
	}

	s := make([]float64, len(scores))
	copy(s, scores)
	c := make([]bool, len(classes))
	copy(c, classes)

	stat.SortWeightedLabeled(s, c, nil)
	tpr, fpr, _ := stat.ROC(nil, s, c, nil)
	return integrate.Trapezoidal(fpr, tpr), true
}

func importanceChart(model *gbmModel) Chart {
	type featGain struct {
		name string
		gain float64
	}

	total := 0.0
	for _, g := range model.gain {
		total += g
	}

	ranked := make([]featGain, len(ClassifierFeatures))
	for j, name := range ClassifierFeatures {
		g := model.gain[j]
		if total > 0 {
			g /= total
		}
		ranked[j] = featGain{name: name, gain: g}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].gain > ranked[j].gain })

	points := make([]Point, len(ranked))
	for i, fg := range ranked {
		points[i] = Point{Label: fg.name, Y: fg.gain}
	}
	return Chart{
		Type:   "bar",
		Title:  "Feature Importance",
		XAxis:  "Feature",
		YAxis:  "Gain share",
		Series: []Series{{Name: "importance", Points: points}},
	}
}

func testAttributions(model *gbmModel, x [][]float64, testIdx []int) *AttributionSet {
	set := &AttributionSet{Features: ClassifierFeatures}
	for _, j := range testIdx {
		phi, baseline := model.shapValues(x[j], len(ClassifierFeatures))
		set.Baseline = baseline
		set.Rows = append(set.Rows, RowAttribution{
			Index:  j,
			Values: phi,
			Margin: model.predictMargin(x[j]),
		})
	}
	return set
}

// shapSummaryChart reports mean absolute attribution per feature over the
// test partition.
func shapSummaryChart(set *AttributionSet) Chart {
	means := make([]float64, len(set.Features))
	for _, row := range set.Rows {
		for j, v := range row.Values {
			means[j] += math.Abs(v)
		}
	}
	if len(set.Rows) > 0 {
		for j := range means {
			means[j] /= float64(len(set.Rows))
		}
	}

	points := make([]Point, len(set.Features))
	for j, name := range set.Features {
		points[j] = Point{Label: name, Y: means[j]}
	}
	return Chart{
		Type:   "bar",
		Title:  "Mean |SHAP value|",
		XAxis:  "Feature",
		YAxis:  "Mean absolute attribution",
		Series: []Series{{Name: "shap", Points: points}},
	}
}
