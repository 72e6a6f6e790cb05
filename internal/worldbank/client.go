package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nordic-dashboard/internal/dataset"
	"nordic-dashboard/internal/httpx"
)

// DefaultBaseURL is the public, unauthenticated World Bank v2 API.
const DefaultBaseURL = "https://api.worldbank.org/v2"

// Client talks to the World Bank v2 API. One logical query is one GET per
// page, nothing more: no retries, no rate limiting, no caching.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// PerPage is the page size requested from the API.
	PerPage int
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		PerPage: 1000,
	}
}

// RetrievalError is the terminal failure for a fetch: network error, non-2xx
// status, or an unparseable/refused response. It carries enough context that
// the log line alone identifies what was being asked for.
type RetrievalError struct {
	Indicator  string
	Countries  []string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RetrievalError) Error() string {
	msg := fmt.Sprintf("worldbank: fetch failed for indicator %s countries %s",
		e.Indicator, strings.Join(e.Countries, ","))
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status=%d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// FetchIndicator retrieves every observation the source has for the given
// indicator, country set and year range. The whole country set goes into one
// path segment (the API joins codes with ";"), so a query is one request per
// page of results. Records with a null value are kept as missing-valued
// observations.
//
// A successfully parsed response with zero observations is not an error; it
// is logged as a warning and yields an empty slice, which the dataset builder
// turns into an all-missing table.
func (c *Client) FetchIndicator(ctx context.Context, indicator string, countries []string, startYear, endYear int) ([]dataset.Observation, error) {
	if len(countries) == 0 {
		return nil, errors.New("worldbank: country list is empty")
	}
	if indicator == "" {
		return nil, errors.New("worldbank: indicator code is empty")
	}
	if startYear > endYear {
		return nil, fmt.Errorf("worldbank: start year %d is after end year %d", startYear, endYear)
	}

	// Records come back with both an ISO-2 id and an ISO-3 code; map them to
	// the caller's spelling so table columns line up with the configured set.
	requested := make(map[string]string, len(countries))
	for _, c := range countries {
		requested[strings.ToUpper(c)] = c
	}
	canonical := func(r indicatorRecord) string {
		if c, ok := requested[strings.ToUpper(r.CountryISO3)]; ok {
			return c
		}
		if c, ok := requested[strings.ToUpper(r.Country.ID)]; ok {
			return c
		}
		if r.CountryISO3 != "" {
			return r.CountryISO3
		}
		return r.Country.ID
	}

	var all []dataset.Observation

	page, pages := 1, 1
	for page <= pages {
		u := c.indicatorURL(indicator, countries, startYear, endYear, page)

		meta, rows, err := c.fetchPage(ctx, u)
		if err != nil {
			return nil, c.retrievalError(indicator, countries, u, err)
		}

		for _, raw := range rows {
			var records []indicatorRecord
			if string(raw) == "null" {
				continue
			}
			if err := json.Unmarshal(raw, &records); err != nil {
				return nil, c.retrievalError(indicator, countries, u,
					fmt.Errorf("json parse error in records: %w", err))
			}
			for _, r := range records {
				obs := dataset.Observation{
					Country: dataset.CountryCode(canonical(r)),
					Year:    int(r.Date),
				}
				if r.Value.Valid {
					obs.Value = dataset.Some(r.Value.Float64)
				}
				all = append(all, obs)
			}
		}

		// The metadata is authoritative for pagination: wide year ranges
		// spill over per_page and would otherwise be silently truncated.
		pages = int(meta.Pages)
		if pages < 1 {
			pages = 1
		}
		page++
	}

	if len(all) == 0 {
		log.Printf("WARN: worldbank: empty result for indicator %s countries %s range %d-%d",
			indicator, strings.Join(countries, ","), startYear, endYear)
	}

	return all, nil
}

// Countries fetches the country directory and returns a lowercased-name to
// ISO code lookup.
func (c *Client) Countries(ctx context.Context) (map[string]string, error) {
	codes := make(map[string]string)

	page, pages := 1, 1
	for page <= pages {
		u := fmt.Sprintf("%s/country?%s", c.BaseURL, url.Values{
			"format":   {"json"},
			"per_page": {"300"},
			"page":     {fmt.Sprint(page)},
		}.Encode())

		meta, rows, err := c.fetchPage(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("worldbank: country directory: %w", err)
		}

		for _, raw := range rows {
			var records []countryRecord
			if string(raw) == "null" {
				continue
			}
			if err := json.Unmarshal(raw, &records); err != nil {
				return nil, fmt.Errorf("worldbank: country directory: json parse error: %w", err)
			}
			for _, r := range records {
				if r.Name == "" || r.ID == "" {
					continue
				}
				codes[strings.ToLower(r.Name)] = r.ID
			}
		}

		pages = int(meta.Pages)
		if pages < 1 {
			pages = 1
		}
		page++
	}

	return codes, nil
}

// ResolveCountryCodes maps configured entries to API codes. Entries that
// already look like ISO codes pass through untouched; anything else is looked
// up by name in the country directory. Unknown names are kept as-is with a
// warning so one typo does not sink the whole run.
func (c *Client) ResolveCountryCodes(ctx context.Context, entries []string) ([]string, error) {
	needLookup := false
	for _, e := range entries {
		if !looksLikeCode(e) {
			needLookup = true
			break
		}
	}

	var dir map[string]string
	if needLookup {
		var err error
		dir, err = c.Countries(ctx)
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if looksLikeCode(e) {
			out = append(out, e)
			continue
		}
		if code, ok := dir[strings.ToLower(strings.TrimSpace(e))]; ok {
			out = append(out, code)
			continue
		}
		log.Printf("WARN: worldbank: no country code found for %q; using it as-is", e)
		out = append(out, e)
	}
	return out, nil
}

func looksLikeCode(s string) bool {
	if len(s) != 2 && len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (c *Client) indicatorURL(indicator string, countries []string, startYear, endYear, page int) string {
	q := url.Values{
		"format":   {"json"},
		"per_page": {fmt.Sprint(c.PerPage)},
		"date":     {fmt.Sprintf("%d:%d", startYear, endYear)},
		"page":     {fmt.Sprint(page)},
	}
	return fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		c.BaseURL,
		url.PathEscape(strings.Join(countries, ";")),
		url.PathEscape(indicator),
		q.Encode())
}

func (c *Client) fetchPage(ctx context.Context, u string) (pageMeta, []json.RawMessage, error) {
	_, body, err := httpx.Get(ctx, c.HTTP, u)
	if err != nil {
		return pageMeta{}, nil, err
	}
	return parseEnvelope(body)
}

func (c *Client) retrievalError(indicator string, countries []string, u string, err error) *RetrievalError {
	re := &RetrievalError{
		Indicator: indicator,
		Countries: countries,
		URL:       u,
		Err:       err,
	}
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		re.StatusCode = herr.StatusCode
		re.Body = httpx.Snippet(herr.Body, 900)
	}
	return re
}
