package worldbank

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The v2 API is loose about scalar shapes: years arrive as "2020" or 2020,
// per_page as "1000" or 1000, values as a number, a numeric string, or null.
// These types absorb the variants so the rest of the pipeline sees clean Go
// values.

// flexInt accepts a JSON number or a numeric string; null and "" decode to
// zero.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("worldbank: invalid integer %q: %w", s, err)
	}
	*n = flexInt(v)
	return nil
}

// Year is the record date field, which arrives as "2020" or 2020.
type Year int

func (y *Year) UnmarshalJSON(b []byte) error {
	var n flexInt
	if err := n.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("worldbank: invalid year: %w", err)
	}
	*y = Year(n)
	return nil
}

// NullFloat accepts null, a JSON number, or a numeric string. Null is kept
// as a valid "missing" state, not an error.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

func (v *NullFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*v = NullFloat{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("worldbank: invalid value %q: %w", s, err)
	}
	*v = NullFloat{Float64: f, Valid: true}
	return nil
}

// ref is the {"id": "...", "value": "..."} pair the API uses for indicator
// and country references.
type ref struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// pageMeta is the first element of every v2 response envelope. On errors
// (unknown indicator, bad parameter) the API still answers 200 but puts a
// message list here instead of records.
type pageMeta struct {
	Page    flexInt       `json:"page"`
	Pages   flexInt       `json:"pages"`
	PerPage flexInt       `json:"per_page"`
	Total   flexInt       `json:"total"`
	Message []metaMessage `json:"message"`
}

type metaMessage struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (m pageMeta) messageText() string {
	parts := make([]string, 0, len(m.Message))
	for _, msg := range m.Message {
		parts = append(parts, strings.TrimSpace(msg.Key+" "+msg.Value))
	}
	return strings.Join(parts, "; ")
}

// indicatorRecord is one observation row of an indicator response.
type indicatorRecord struct {
	Indicator   ref       `json:"indicator"`
	Country     ref       `json:"country"`
	CountryISO3 string    `json:"countryiso3code"`
	Date        Year      `json:"date"`
	Value       NullFloat `json:"value"`
	Unit        string    `json:"unit"`
	ObsStatus   string    `json:"obs_status"`
	Decimal     int       `json:"decimal"`
}

// countryRecord is one row of the /country directory.
type countryRecord struct {
	ID       string `json:"id"` // ISO-3, e.g. "DNK"
	ISO2Code string `json:"iso2Code"`
	Name     string `json:"name"`
	Region   ref    `json:"region"`
}

func parseEnvelope(body []byte) (pageMeta, []json.RawMessage, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return pageMeta{}, nil, fmt.Errorf("json parse error: %w", err)
	}
	if len(envelope) == 0 {
		// "[]" parses fine and simply carries no data.
		return pageMeta{}, nil, nil
	}

	var meta pageMeta
	if err := json.Unmarshal(envelope[0], &meta); err != nil {
		return pageMeta{}, nil, fmt.Errorf("json parse error in page metadata: %w", err)
	}
	if len(meta.Message) > 0 {
		return meta, nil, fmt.Errorf("api message: %s", meta.messageText())
	}
	return meta, envelope[1:], nil
}
