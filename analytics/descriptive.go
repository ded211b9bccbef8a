package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"resume-dashboard/dataset"
)

// Descriptive computes the overview metrics and distributions of the
// dashboard landing view: totals, crisis counts, age span, and a group-by
// distribution for the requested categorical column (employment status by
// default). Pure aggregation, no model fitting.
func Descriptive(rs dataset.Rowset, groupBy string) *Result {
	if groupBy == "" {
		groupBy = "employment_status"
	}

	res := &Result{Mode: ModeDescriptive, Available: true}
	n := rs.Len()

	res.Metrics = append(res.Metrics, Metric{Label: "Total records", Value: strconv.Itoa(n)})

	crisis := 0
	for i := 0; i < n; i++ {
		if v, ok := rs.Number(i, "crisis_event"); ok && v == 1 {
			crisis++
		}
	}
	res.Metrics = append(res.Metrics, Metric{Label: "Recorded crisis events", Value: strconv.Itoa(crisis)})

	if minAge, maxAge, ok := numericSpan(rs, "age"); ok {
		res.Metrics = append(res.Metrics, Metric{
			Label: "Age range",
			Value: fmt.Sprintf("%d - %d", int(minAge), int(maxAge)),
		})
	}

	groups := countByValue(rs, groupBy)
	res.Metrics = append(res.Metrics, Metric{
		Label: "Distinct " + groupBy,
		Value: strconv.Itoa(len(groups)),
	})

	if len(groups) > 0 {
		points := make([]Point, 0, len(groups))
		for _, g := range groups {
			points = append(points, Point{Label: g.label, Y: float64(g.count)})
		}
		res.Charts = append(res.Charts, Chart{
			Type:   "pie",
			Title:  "Distribution by " + groupBy,
			Series: []Series{{Name: groupBy, Points: points}},
		})
	}

	res.Tables = append(res.Tables, qualityTable(rs))
	return res
}

func numericSpan(rs dataset.Rowset, col string) (minV, maxV float64, ok bool) {
	for i := 0; i < rs.Len(); i++ {
		v, present := rs.Number(i, col)
		if !present {
			continue
		}
		if !ok || v < minV {
			minV = v
		}
		if !ok || v > maxV {
			maxV = v
		}
		ok = true
	}
	return minV, maxV, ok
}

type valueCount struct {
	label string
	count int
}

// countByValue groups rows by a column's display value, descending by
// count, then alphabetically for stable output. Missing values are
// excluded.
func countByValue(rs dataset.Rowset, col string) []valueCount {
	counts := make(map[string]int)
	for i := 0; i < rs.Len(); i++ {
		if v := rs.Display(i, col); v != "" {
			counts[v]++
		}
	}

	out := make([]valueCount, 0, len(counts))
	for label, c := range counts {
		out = append(out, valueCount{label: label, count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].label < out[j].label
	})
	return out
}

func qualityTable(rs dataset.Rowset) Table {
	quality := dataset.Quality(rs)
	rows := make([][]string, 0, len(quality))
	for _, q := range quality {
		rows = append(rows, []string{
			q.Name,
			q.Kind,
			strconv.Itoa(q.Unique),
			strconv.Itoa(q.Missing),
			fmt.Sprintf("%.2f%%", q.MissingPct),
		})
	}
	return Table{
		Title:   "Data quality",
		Columns: []string{"Column", "Type", "Unique values", "Missing", "Missing %"},
		Rows:    rows,
	}
}
