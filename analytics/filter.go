package analytics

import (
	"strings"

	"resume-dashboard/dataset"
)

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Criteria is the conjunction of active filters for one query. Inactive
// criteria (absent keys, empty search) impose no constraint, and criteria
// naming columns the data does not have are skipped.
type Criteria struct {
	// Search matches case-insensitively against any text column.
	Search string `json:"search,omitempty"`
	// Ranges keeps rows whose numeric column value lies in the closed
	// interval. Rows missing the value fail an active range filter.
	Ranges map[string]Range `json:"ranges,omitempty"`
	// Values keeps rows whose column value is in the allowed set.
	Values map[string][]string `json:"values,omitempty"`
}

func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Search) == "" && len(c.Ranges) == 0 && len(c.Values) == 0
}

// Filter returns the subset of rows satisfying all active criteria. The
// input is never mutated; the result is an index view over it. Filtering
// is idempotent and always yields a subset of the input.
func Filter(rs dataset.Rowset, c Criteria) dataset.Rowset {
	if c.IsEmpty() {
		return rs
	}

	textCols := make([]string, 0)
	for _, col := range rs.Columns() {
		if col.Kind == dataset.Text {
			textCols = append(textCols, col.Name)
		}
	}

	term := strings.ToLower(strings.TrimSpace(c.Search))

	// Resolve criteria against the column catalog once; unknown columns
	// impose no constraint.
	ranges := make(map[string]Range)
	for col, r := range c.Ranges {
		if meta, ok := dataset.LookupColumn(col); ok && meta.Kind == dataset.Numeric {
			ranges[col] = r
		}
	}
	valueSets := make(map[string]map[string]struct{})
	for col, allowed := range c.Values {
		if _, ok := dataset.LookupColumn(col); !ok || len(allowed) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(allowed))
		for _, v := range allowed {
			set[v] = struct{}{}
		}
		valueSets[col] = set
	}

	n := rs.Len()
	indices := make([]int, 0, n)

rows:
	for i := 0; i < n; i++ {
		if term != "" && !matchesSearch(rs, i, textCols, term) {
			continue
		}
		for col, r := range ranges {
			v, ok := rs.Number(i, col)
			if !ok || v < r.Min || v > r.Max {
				continue rows
			}
		}
		for col, set := range valueSets {
			if _, ok := set[rs.Display(i, col)]; !ok {
				continue rows
			}
		}
		indices = append(indices, i)
	}

	return dataset.NewView(rs, indices)
}

func matchesSearch(rs dataset.Rowset, i int, textCols []string, term string) bool {
	for _, col := range textCols {
		if strings.Contains(strings.ToLower(rs.Text(i, col)), term) {
			return true
		}
	}
	return false
}
