package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	barFull = "█"
	barAxis = "─"
)

// BarOptions controls a bar chart. Bars grow up or down from a zero axis.
type BarOptions struct {
	Width      int
	Height     int
	Min        int
	Max        int
	Color      int
	ForceColor bool
}

// PlotBars renders values as vertical bars between opts.Min and opts.Max.
func PlotBars(w io.Writer, title string, values []int, opts BarOptions) error {
	if len(values) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight / 2
	}
	lo, hi := float64(opts.Min), float64(opts.Max)
	if lo > 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	if hi == lo {
		hi++
	}
	labels := []string{formatValue(hi), formatValue(lo)}
	labelWidth := max(runewidth.StringWidth(labels[0]), runewidth.StringWidth(labels[1]))
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), labelWidth)
	}
	cols := len(values)
	if cols > width {
		cols = width
	}
	samples := make([]float64, len(values))
	for i, v := range values {
		samples[i] = float64(v)
	}
	samples = resample(samples, cols)

	zero := valueToRow(0, lo, hi, height)
	tops := make([]int, cols)
	for i, v := range samples {
		tops[i] = valueToRow(v, lo, hi, height)
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = labels[0]
		case height - 1:
			label = labels[1]
		}
		b.WriteString(runewidth.FillLeft(label, labelWidth))
		b.WriteString(axisSeparator)
		for x := 0; x < cols; x++ {
			b.WriteString(barCell(y, zero, tops[x], samples[x], useColor, opts.Color))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d samples, range %d .. %d\n\n", len(values), opts.Min, opts.Max)
	_, err := io.WriteString(w, b.String())
	return err
}

func barCell(y, zero, top int, v float64, useColor bool, color int) string {
	lo, hi := zero, top
	if lo > hi {
		lo, hi = hi, lo
	}
	if v == 0 || y < lo || y > hi {
		if y == zero {
			return barAxis
		}
		return " "
	}
	if useColor && color >= 0 {
		return palette[color%len(palette)] + barFull + colorReset
	}
	return barFull
}
