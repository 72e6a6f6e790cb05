package dataset

import (
	"reflect"
	"testing"
)

var nordics = []CountryCode{"DK", "SE", "NO", "FI", "IS"}

func TestTableShape(t *testing.T) {
	testCases := []struct {
		name      string
		countries []CountryCode
		start     int
		end       int
		wantRows  int
		wantCols  int
	}{
		{"three years five countries", nordics, 2018, 2020, 3, 5},
		{"single year", []CountryCode{"DK"}, 2020, 2020, 1, 1},
		{"wide range", nordics, 1960, 2022, 63, 5},
		{"duplicate country collapses", []CountryCode{"DK", "DK", "SE"}, 2019, 2020, 2, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Shape must hold no matter how sparse the data is, so build
			// from zero observations.
			tab := Build(nil, tc.countries, tc.start, tc.end)

			if got := len(tab.Years()); got != tc.wantRows {
				t.Errorf("Expected %d rows, got %d", tc.wantRows, got)
			}
			if got := len(tab.Countries()); got != tc.wantCols {
				t.Errorf("Expected %d columns, got %d", tc.wantCols, got)
			}
			if !tab.IsEmpty() {
				t.Error("Expected table built from no observations to be empty")
			}
		})
	}
}

func TestBuildRoundTrip(t *testing.T) {
	obs := []Observation{
		{Country: "SE", Year: 2019, Value: Some(1.7045)},
	}
	tab := Build(obs, nordics, 2018, 2020)

	v := tab.Value(2019, "SE")
	if !v.OK {
		t.Fatal("Expected value to be present")
	}
	if v.F != 1.7045 {
		t.Errorf("Expected 1.7045 exactly, got %v", v.F)
	}
}

func TestMissingObservationStaysMissing(t *testing.T) {
	obs := []Observation{
		{Country: "IS", Year: 2019}, // explicit "no data" from the source
	}
	tab := Build(obs, nordics, 2018, 2020)

	if tab.Value(2019, "IS").OK {
		t.Error("Expected missing observation to stay missing")
	}
	if _, ok := tab.Latest()["IS"]; ok {
		t.Error("Expected IS to be excluded from latest view with no non-missing data")
	}
}

func TestLatestPicksNewestNonMissing(t *testing.T) {
	obs := []Observation{
		{Country: "DK", Year: 2018, Value: Some(1.5)},
		{Country: "DK", Year: 2020}, // newest year is missing
	}
	tab := Build(obs, nordics, 2018, 2020)

	lv, ok := tab.Latest()["DK"]
	if !ok {
		t.Fatal("Expected DK in latest view")
	}
	if lv.Year != 2018 || lv.Value != 1.5 {
		t.Errorf("Expected (2018, 1.5), got (%d, %v)", lv.Year, lv.Value)
	}
}

func TestZeroIsNotMissing(t *testing.T) {
	obs := []Observation{
		{Country: "NO", Year: 2020, Value: Some(0)},
	}
	tab := Build(obs, nordics, 2018, 2020)

	if !tab.Value(2020, "NO").OK {
		t.Error("Expected reported zero to count as present")
	}
	if lv := tab.Latest()["NO"]; lv.Year != 2020 || lv.Value != 0 {
		t.Errorf("Expected latest (2020, 0), got (%d, %v)", lv.Year, lv.Value)
	}
}

func TestDuplicatesLastWriteWins(t *testing.T) {
	obs := []Observation{
		{Country: "FI", Year: 2019, Value: Some(1.35)},
		{Country: "FI", Year: 2019, Value: Some(1.41)},
	}
	tab := Build(obs, nordics, 2018, 2020)

	if v := tab.Value(2019, "FI"); v.F != 1.41 {
		t.Errorf("Expected last write 1.41, got %v", v.F)
	}
}

func TestOutOfScopeObservationsIgnored(t *testing.T) {
	obs := []Observation{
		{Country: "DK", Year: 2017, Value: Some(1.75)}, // before range
		{Country: "DK", Year: 2021, Value: Some(1.72)}, // after range
		{Country: "DE", Year: 2019, Value: Some(1.54)}, // unconfigured country
	}
	tab := Build(obs, nordics, 2018, 2020)

	if !tab.IsEmpty() {
		t.Error("Expected all out-of-scope observations to be ignored")
	}
	if tab.Value(2019, "DE").OK {
		t.Error("Expected unconfigured country lookup to report missing")
	}
}

func TestSeriesSkipsGaps(t *testing.T) {
	obs := []Observation{
		{Country: "SE", Year: 2018, Value: Some(1.76)},
		{Country: "SE", Year: 2019}, // gap
		{Country: "SE", Year: 2020, Value: Some(1.66)},
	}
	tab := Build(obs, nordics, 2018, 2020)

	xs, ys := tab.Series("SE")
	if !reflect.DeepEqual(xs, []float64{2018, 2020}) {
		t.Errorf("Unexpected xs: %v", xs)
	}
	if !reflect.DeepEqual(ys, []float64{1.76, 1.66}) {
		t.Errorf("Unexpected ys: %v", ys)
	}
}

func TestEndToEndGrid(t *testing.T) {
	// 3x5 grid 2018-2020 with a known value for every cell except a missing
	// 2020 cell for IS; the latest view must pick 2020 everywhere a
	// non-missing 2020 value exists, and 2019 for IS.
	grid := map[int]map[CountryCode]float64{
		2018: {"DK": 1.73, "SE": 1.76, "NO": 1.56, "FI": 1.41, "IS": 1.71},
		2019: {"DK": 1.70, "SE": 1.71, "NO": 1.53, "FI": 1.35, "IS": 1.75},
		2020: {"DK": 1.67, "SE": 1.66, "NO": 1.48, "FI": 1.37},
	}

	var obs []Observation
	for year, row := range grid {
		for c, v := range row {
			obs = append(obs, Observation{Country: c, Year: year, Value: Some(v)})
		}
	}
	obs = append(obs, Observation{Country: "IS", Year: 2020}) // explicit null

	tab := Build(obs, nordics, 2018, 2020)

	for year, row := range grid {
		for _, c := range nordics {
			want, present := row[c]
			got := tab.Value(year, c)
			if present != got.OK {
				t.Errorf("Cell (%d, %s): presence = %v, want %v", year, c, got.OK, present)
				continue
			}
			if present && got.F != want {
				t.Errorf("Cell (%d, %s) = %v, want %v", year, c, got.F, want)
			}
		}
	}

	latest := tab.Latest()
	if len(latest) != 5 {
		t.Fatalf("Expected all 5 countries in latest view, got %d", len(latest))
	}
	for _, c := range []CountryCode{"DK", "SE", "NO", "FI"} {
		if latest[c].Year != 2020 {
			t.Errorf("Expected latest year 2020 for %s, got %d", c, latest[c].Year)
		}
	}
	if latest["IS"].Year != 2019 || latest["IS"].Value != 1.75 {
		t.Errorf("Expected IS latest (2019, 1.75), got (%d, %v)", latest["IS"].Year, latest["IS"].Value)
	}
}
