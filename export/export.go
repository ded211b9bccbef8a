// Package export renders a rowset into downloadable file formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"resume-dashboard/dataset"
)

// Supported export formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatExcel = "excel"
)

// ContentType returns the MIME type for a format, or "" when unknown.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return ""
}

// FileName returns the download file name for a format.
func FileName(format string) string {
	switch format {
	case FormatExcel:
		return "resume_data.xlsx"
	case FormatJSON:
		return "resume_data.json"
	}
	return "resume_data.csv"
}

// Write renders rs to w in the given format, restricted to the named
// columns. An empty column list exports every column; unknown names are
// an error.
func Write(w io.Writer, rs dataset.Rowset, format string, columns []string) error {
	cols, err := resolveColumns(rs, columns)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, rs, cols)
	case FormatJSON:
		return writeJSON(w, rs, cols)
	case FormatExcel:
		return writeExcel(w, rs, cols)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func resolveColumns(rs dataset.Rowset, names []string) ([]dataset.Column, error) {
	if len(names) == 0 {
		return rs.Columns(), nil
	}
	cols := make([]dataset.Column, 0, len(names))
	for _, name := range names {
		col, ok := dataset.LookupColumn(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func writeCSV(w io.Writer, rs dataset.Rowset, cols []dataset.Column) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for i := 0; i < rs.Len(); i++ {
		for j, c := range cols {
			row[j] = rs.Display(i, c.Name)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, rs dataset.Rowset, cols []dataset.Column) error {
	out := make([]map[string]any, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		row := make(map[string]any, len(cols))
		for _, c := range cols {
			switch c.Kind {
			case dataset.Numeric:
				if v, ok := rs.Number(i, c.Name); ok {
					row[c.Name] = v
				} else {
					row[c.Name] = nil
				}
			default:
				row[c.Name] = rs.Display(i, c.Name)
			}
		}
		out[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeExcel(w io.Writer, rs dataset.Rowset, cols []dataset.Column) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := 0; i < rs.Len(); i++ {
		row := make([]any, len(cols))
		for j, c := range cols {
			if c.Kind == dataset.Numeric {
				if v, ok := rs.Number(i, c.Name); ok {
					row[j] = v
					continue
				}
				row[j] = nil
				continue
			}
			row[j] = rs.Display(i, c.Name)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
