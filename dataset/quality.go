package dataset

// ColumnQuality summarizes completeness of one column.
type ColumnQuality struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
	Unique     int     `json:"unique"`
}

// Quality computes per-column missing and distinct-value counts. A numeric
// value is missing when absent, a text value when empty, a timestamp when
// zero. Matches the quality tables of the original dashboard.
func Quality(rs Rowset) []ColumnQuality {
	n := rs.Len()
	out := make([]ColumnQuality, 0, len(rs.Columns()))

	for _, col := range rs.Columns() {
		q := ColumnQuality{Name: col.Name, Kind: col.Kind.String()}
		seen := make(map[string]struct{})
		for i := 0; i < n; i++ {
			disp := rs.Display(i, col.Name)
			if disp == "" {
				q.Missing++
				continue
			}
			seen[disp] = struct{}{}
		}
		q.Unique = len(seen)
		if n > 0 {
			q.MissingPct = float64(q.Missing) / float64(n) * 100
		}
		out = append(out, q)
	}
	return out
}
