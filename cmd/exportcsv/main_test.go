package main

import "testing"

func TestCsvPath(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"nordic_fertility_dashboard.png", "nordic_fertility_dashboard.csv"},
		{"out/dash.png", "out/dash.csv"},
		{"plain", "plain.csv"},
		{"archive.tar.png", "archive.tar.csv"},
	}

	for _, tc := range testCases {
		if got := csvPath(tc.input); got != tc.expected {
			t.Errorf("csvPath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestToCountryCodes(t *testing.T) {
	codes := toCountryCodes([]string{"DK", "SE"})
	if len(codes) != 2 || string(codes[0]) != "DK" || string(codes[1]) != "SE" {
		t.Errorf("Unexpected conversion: %v", codes)
	}
}
