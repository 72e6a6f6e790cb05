package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"nordic-dashboard/internal/dataset"
)

// Nord-ish palette, same hues the dashboard has always used.
var palette = []drawing.Color{
	drawing.ColorFromHex("4C566A"),
	drawing.ColorFromHex("5E81AC"),
	drawing.ColorFromHex("88C0D0"),
	drawing.ColorFromHex("8FBCBB"),
	drawing.ColorFromHex("81A1C1"),
}

var (
	figureBackground = drawing.ColorFromHex("ECEFF4")
	panelBackground  = drawing.ColorFromHex("E5E9F0")
	textColor        = drawing.ColorFromHex("4C566A")
)

const (
	trendWidth  = 900
	trendHeight = 620
	barWidth    = 520
	barHeight   = 620
	footerH     = 28
)

// Options carries the labels that vary with the configured indicator.
type Options struct {
	Title      string // e.g. "Fertility Rate Trends (1960-2022)"
	ValueLabel string // e.g. "Fertility Rate (births per woman)"
	Footnote   string // e.g. "Data source: World Bank"
}

// Dashboard renders the two-panel figure (trend lines on the left, latest
// values as bars on the right) composed into a single PNG. Countries without
// a single non-missing observation are skipped with a warning; a table with
// no data at all is an error since there is nothing to draw.
func Dashboard(w io.Writer, t *dataset.Table, opts Options) error {
	latest := t.Latest()
	if len(latest) == 0 {
		return fmt.Errorf("render: table has no data to draw")
	}

	if opts.Title == "" {
		opts.Title = fmt.Sprintf("Trends (%d-%d)", t.StartYear(), t.EndYear())
	}
	if opts.ValueLabel == "" {
		opts.ValueLabel = "Value"
	}

	trendPanel, err := renderTrends(t, opts)
	if err != nil {
		return fmt.Errorf("render: trend panel: %w", err)
	}

	barPanel, err := renderLatest(latest, opts)
	if err != nil {
		return fmt.Errorf("render: latest-value panel: %w", err)
	}

	figure := compose(trendPanel, barPanel, opts.Footnote)
	return png.Encode(w, figure)
}

func renderTrends(t *dataset.Table, opts Options) (image.Image, error) {
	var series []chart.Series
	for i, c := range t.Countries() {
		xs, ys := t.Series(c)
		if len(xs) == 0 {
			log.Printf("WARN: render: no data for %s; skipping trend series", c)
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    string(c),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: palette[i%len(palette)],
				StrokeWidth: 2.5,
			},
		})
	}

	graph := chart.Chart{
		Title:      opts.Title,
		TitleStyle: chart.Style{FontColor: textColor},
		Width:      trendWidth,
		Height:     trendHeight,
		Background: chart.Style{FillColor: figureBackground},
		Canvas:     chart.Style{FillColor: panelBackground},
		XAxis: chart.XAxis{
			Name:           "Year",
			NameStyle:      chart.Style{FontColor: textColor},
			Style:          chart.Style{FontColor: textColor},
			ValueFormatter: chart.IntValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:      opts.ValueLabel,
			NameStyle: chart.Style{FontColor: textColor},
			Style:     chart.Style{FontColor: textColor},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	})
}

func renderLatest(latest map[dataset.CountryCode]dataset.LatestValue, opts Options) (image.Image, error) {
	type entry struct {
		country dataset.CountryCode
		lv      dataset.LatestValue
	}

	entries := make([]entry, 0, len(latest))
	newestYear := 0
	for c, lv := range latest {
		entries = append(entries, entry{country: c, lv: lv})
		if lv.Year > newestYear {
			newestYear = lv.Year
		}
	}
	// Ascending by value, like the original bar panel.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].lv.Value != entries[j].lv.Value {
			return entries[i].lv.Value < entries[j].lv.Value
		}
		return entries[i].country < entries[j].country
	})

	bars := make([]chart.Value, 0, len(entries))
	for i, e := range entries {
		col := palette[i%len(palette)]
		label := fmt.Sprintf("%s %.2f", e.country, e.lv.Value)
		if e.lv.Year != newestYear {
			// Flag values carried over from an older year.
			label = fmt.Sprintf("%s %.2f (%d)", e.country, e.lv.Value, e.lv.Year)
		}
		bars = append(bars, chart.Value{
			Value: e.lv.Value,
			Label: label,
			Style: chart.Style{
				FillColor:   col,
				StrokeColor: col,
			},
		})
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Latest Values (%d)", newestYear),
		TitleStyle: chart.Style{FontColor: textColor},
		Width:      barWidth,
		Height:     barHeight,
		BarWidth:   60,
		Background: chart.Style{FillColor: figureBackground},
		Canvas:     chart.Style{FillColor: panelBackground},
		XAxis:      chart.Style{FontColor: textColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
		},
		Bars: bars,
	}

	return renderPNG(func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	})
}

func renderPNG(render func(io.Writer) error) (image.Image, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// compose lays the two panels side by side on one canvas and writes the
// footnote under them.
func compose(left, right image.Image, footnote string) image.Image {
	lb, rb := left.Bounds(), right.Bounds()

	width := lb.Dx() + rb.Dx()
	height := lb.Dy()
	if rb.Dy() > height {
		height = rb.Dy()
	}
	height += footerH

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := image.NewUniform(rgba(figureBackground))
	draw.Draw(dst, dst.Bounds(), bg, image.Point{}, draw.Src)

	draw.Draw(dst, image.Rect(0, 0, lb.Dx(), lb.Dy()), left, lb.Min, draw.Src)
	draw.Draw(dst, image.Rect(lb.Dx(), 0, width, rb.Dy()), right, rb.Min, draw.Src)

	if footnote != "" {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(rgba(textColor)),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(12, height-10),
		}
		d.DrawString(footnote)
	}

	return dst
}

func rgba(c drawing.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
