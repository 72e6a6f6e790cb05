package dataset

// CountryCode identifies one country/series in the dataset. World Bank
// accepts both ISO-2 ("DK") and ISO-3 ("DNK") codes; we store whatever the
// source reports and never interpret it.
type CountryCode string

// Value is an optional float64 cell. The zero value means "no data reported",
// which is distinct from a reported zero.
type Value struct {
	F  float64
	OK bool
}

// Some wraps a reported number.
func Some(f float64) Value { return Value{F: f, OK: true} }

// Observation is one (country, year, value) data point as it comes off the
// wire. A missing Value is meaningful: the source explicitly reported no
// data for that cell, so it is kept rather than dropped.
type Observation struct {
	Country CountryCode
	Year    int
	Value   Value
}

// Table is a dense year-by-country grid. Every year in [start, end] is a row
// and every configured country is a column, regardless of how sparse the
// source data is. Cells default to missing.
type Table struct {
	startYear int
	endYear   int
	countries []CountryCode
	colIndex  map[CountryCode]int
	cells     [][]Value // cells[year-startYear][colIndex[country]]
}

// NewTable builds the all-missing grid for the given countries and year
// range. Duplicate countries keep their first position.
func NewTable(countries []CountryCode, startYear, endYear int) *Table {
	t := &Table{
		startYear: startYear,
		endYear:   endYear,
		colIndex:  make(map[CountryCode]int, len(countries)),
	}
	for _, c := range countries {
		if _, dup := t.colIndex[c]; dup {
			continue
		}
		t.colIndex[c] = len(t.countries)
		t.countries = append(t.countries, c)
	}

	rows := endYear - startYear + 1
	if rows < 0 {
		rows = 0
	}
	t.cells = make([][]Value, rows)
	for i := range t.cells {
		t.cells[i] = make([]Value, len(t.countries))
	}
	return t
}

// Build assembles the table from raw observations. Pure transformation:
// observations outside the year range or country set are ignored, duplicates
// are last-write-wins, and an empty observation set yields a fully-missing
// table of the correct shape.
func Build(obs []Observation, countries []CountryCode, startYear, endYear int) *Table {
	t := NewTable(countries, startYear, endYear)
	for _, o := range obs {
		t.Set(o.Year, o.Country, o.Value)
	}
	return t
}

func (t *Table) StartYear() int { return t.startYear }
func (t *Table) EndYear() int   { return t.endYear }

// Years returns the row labels in ascending order.
func (t *Table) Years() []int {
	years := make([]int, len(t.cells))
	for i := range years {
		years[i] = t.startYear + i
	}
	return years
}

// Countries returns the column labels in configured order.
func (t *Table) Countries() []CountryCode {
	out := make([]CountryCode, len(t.countries))
	copy(out, t.countries)
	return out
}

// Set stores a cell value. Out-of-range years and unconfigured countries are
// silently ignored.
func (t *Table) Set(year int, c CountryCode, v Value) {
	col, ok := t.colIndex[c]
	if !ok {
		return
	}
	row := year - t.startYear
	if row < 0 || row >= len(t.cells) {
		return
	}
	t.cells[row][col] = v
}

// Value returns the cell for (year, country); missing for anything outside
// the grid.
func (t *Table) Value(year int, c CountryCode) Value {
	col, ok := t.colIndex[c]
	if !ok {
		return Value{}
	}
	row := year - t.startYear
	if row < 0 || row >= len(t.cells) {
		return Value{}
	}
	return t.cells[row][col]
}

// IsEmpty reports whether every cell is missing.
func (t *Table) IsEmpty() bool {
	for _, row := range t.cells {
		for _, v := range row {
			if v.OK {
				return false
			}
		}
	}
	return true
}

// Series returns the non-missing points of one column as parallel x (year)
// and y (value) slices, ascending by year. Missing cells leave gaps rather
// than zeros.
func (t *Table) Series(c CountryCode) (xs, ys []float64) {
	col, ok := t.colIndex[c]
	if !ok {
		return nil, nil
	}
	for i, row := range t.cells {
		if row[col].OK {
			xs = append(xs, float64(t.startYear+i))
			ys = append(ys, row[col].F)
		}
	}
	return xs, ys
}

// LatestValue is a country's most recent non-missing observation.
type LatestValue struct {
	Year  int
	Value float64
}

// Latest scans each column newest-first and returns its most recent
// non-missing value. Countries with no data at all are omitted, never
// synthesized as zero.
func (t *Table) Latest() map[CountryCode]LatestValue {
	out := make(map[CountryCode]LatestValue)
	for c, col := range t.colIndex {
		for row := len(t.cells) - 1; row >= 0; row-- {
			if v := t.cells[row][col]; v.OK {
				out[c] = LatestValue{Year: t.startYear + row, Value: v.F}
				break
			}
		}
	}
	return out
}
