package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"nordic-dashboard/internal/dataset"
)

// WriteTableCSV writes the year-by-country table. Header is "year" followed
// by the country codes in table order; missing cells stay empty so they
// remain distinguishable from zero.
func WriteTableCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)

	countries := t.Countries()

	header := make([]string, 0, len(countries)+1)
	header = append(header, "year")
	for _, c := range countries {
		header = append(header, string(c))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, year := range t.Years() {
		row := make([]string, 0, len(countries)+1)
		row = append(row, strconv.Itoa(year))
		for _, c := range countries {
			v := t.Value(year, c)
			if v.OK {
				row = append(row, strconv.FormatFloat(v.F, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTableCSVFile writes the table to a file path.
func WriteTableCSVFile(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteTableCSV(f, t); err != nil {
		return err
	}
	return f.Close()
}
