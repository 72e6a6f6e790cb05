package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"nordic-dashboard/internal/dataset"
)

func sampleTable() *dataset.Table {
	obs := []dataset.Observation{
		{Country: "DK", Year: 2019, Value: dataset.Some(1.7)},
		{Country: "DK", Year: 2020, Value: dataset.Some(1.67)},
		{Country: "SE", Year: 2019, Value: dataset.Some(1.71)},
		{Country: "SE", Year: 2020}, // explicit missing
	}
	return dataset.Build(obs, []dataset.CountryCode{"DK", "SE"}, 2019, 2020)
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteTableCSV returned error: %v", err)
	}

	expected := "year,DK,SE\n" +
		"2019,1.7,1.71\n" +
		"2020,1.67,\n"
	if buf.String() != expected {
		t.Errorf("Unexpected CSV output:\ngot:\n%s\nwant:\n%s", buf.String(), expected)
	}
}

func TestWriteTableCSVEmptyTable(t *testing.T) {
	// An all-missing table is valid output and must keep its full shape.
	tab := dataset.Build(nil, []dataset.CountryCode{"DK", "SE", "NO"}, 2018, 2020)

	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, tab); err != nil {
		t.Fatalf("WriteTableCSV returned error: %v", err)
	}

	expected := "year,DK,SE,NO\n" +
		"2018,,,\n" +
		"2019,,,\n" +
		"2020,,,\n"
	if buf.String() != expected {
		t.Errorf("Unexpected CSV output:\ngot:\n%s\nwant:\n%s", buf.String(), expected)
	}
}

func TestWriteTableCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := WriteTableCSVFile(path, sampleTable()); err != nil {
		t.Fatalf("WriteTableCSVFile returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading written file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected non-empty CSV file")
	}
}
