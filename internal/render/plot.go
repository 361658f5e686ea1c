// Package render draws parsed game sessions and tallies as terminal text.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named line on a plot. Color indexes the palette; a negative
// value draws without colour.
type Series struct {
	Name   string
	Values []float64
	Color  int
	Dashed bool
}

// PlotOptions controls the size and scale of a plot.
type PlotOptions struct {
	Width  int
	Height int
	// Fixed pins the y axis to Min..Max instead of the data extent.
	Fixed      bool
	Min        float64
	Max        float64
	Guides     []float64
	ForceColor bool
}

type lineStyle struct {
	name   string
	period int
	on     int
}

var (
	solidLine  = lineStyle{name: "solid", period: 1, on: 1}
	dashedLine = lineStyle{name: "dashed", period: 6, on: 3}
	dottedLine = lineStyle{name: "dotted", period: 4, on: 1}
)

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// Tableau-like palette mapped onto the 256-colour ANSI cube.
var palette = []string{
	"\x1b[38;5;32m",
	"\x1b[38;5;208m",
	"\x1b[38;5;34m",
	"\x1b[38;5;160m",
	"\x1b[38;5;98m",
	"\x1b[38;5;94m",
	"\x1b[38;5;169m",
	"\x1b[38;5;244m",
	"\x1b[38;5;142m",
	"\x1b[38;5;38m",
}

// PlotLines renders a braille line plot of all series on a shared y axis.
func PlotLines(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	lo, hi := opts.Min, opts.Max
	if !opts.Fixed {
		lo, hi = extent(series)
	}
	if math.Abs(hi-lo) < 1e-9 {
		lo--
		hi++
	}
	labels := axisLabels(lo, hi, height)
	labelWidth := 0
	for _, l := range labels {
		if lw := runewidth.StringWidth(l); lw > labelWidth {
			labelWidth = lw
		}
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), labelWidth)
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	c := newCanvas(width, height)
	dotRows := height * 4
	for _, g := range opts.Guides {
		if g < lo || g > hi {
			continue
		}
		row := valueToRow(g, lo, hi, dotRows)
		l := c.addLayer(-1)
		l.line(0, row, width*2-1, row, dottedLine)
	}
	maxLen := longest(series)
	for _, s := range series {
		style := solidLine
		if s.Dashed {
			style = dashedLine
		}
		cols := len(s.Values) * width / maxLen
		if cols < 1 {
			cols = 1
		}
		l := c.addLayer(s.Color)
		prevX, prevY := -1, -1
		for x, v := range resample(s.Values, cols) {
			px, py := x*2, valueToRow(v, lo, hi, dotRows)
			if prevX >= 0 {
				l.line(prevX, prevY, px, py, style)
			} else {
				l.line(px, py, px, py, style)
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Range: %s .. %s\n", formatValue(lo), formatValue(hi))
	for y := 0; y < height; y++ {
		b.WriteString(runewidth.FillLeft(labels[y], labelWidth))
		b.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, color := c.cell(x, y)
			ch := string(brailleRune(mask))
			if useColor && color >= 0 {
				ch = palette[color%len(palette)] + ch + colorReset
			}
			b.WriteString(ch)
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(series, useColor))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func longest(series []Series) int {
	n := 0
	for _, s := range series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}
	return n
}

func extent(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	labels[0] = formatValue(hi)
	if height > 2 {
		labels[height/2] = formatValue(hi - (hi-lo)*float64(height/2)/float64(height-1))
	}
	if height > 1 {
		labels[height-1] = formatValue(lo)
	}
	return labels
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// PlotWidthFor returns the plot width that fits next to an axis of labelWidth
// columns within totalWidth.
func PlotWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - labelWidth - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// resample stretches or squeezes values onto n columns. Squeezing averages
// buckets, stretching interpolates linearly.
func resample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := (i + 1) * len(values) / n
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || len(values) == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func valueToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return clamp(row, 0, rows-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for _, s := range series {
		style := solidLine.name
		if s.Dashed {
			style = dashedLine.name
		}
		label := fmt.Sprintf("%c %s (%s)", brailleRune(0x01), s.Name, style)
		if useColor && s.Color >= 0 {
			label = palette[s.Color%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}
