package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/renameio/maybe"
	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/monkeylog/internal/model"
)

// DefaultExt is the extension of chart documents written next to a log.
const DefaultExt = ".chart"

// PageBreak separates the pages of a chart document.
const PageBreak = "\f\n"

const scoreGuideStep = 50

// DocumentOptions controls chart document rendering.
type DocumentOptions struct {
	Width      int
	Height     int
	ForceColor bool
}

func (o DocumentOptions) plot() PlotOptions {
	return PlotOptions{Width: o.Width, Height: o.Height, ForceColor: o.ForceColor}
}

func (o DocumentOptions) barHeight() int {
	h := o.Height
	if h <= 0 {
		h = defaultPlotHeight
	}
	return max(3, h/2)
}

// DocumentPath returns the chart document path for a log: the log's path
// with its extension replaced by ext.
func DocumentPath(logPath, ext string) (string, error) {
	if ext == "" {
		return "", fmt.Errorf("document extension is empty")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	out := strings.TrimSuffix(logPath, filepath.Ext(logPath)) + ext
	if filepath.Clean(out) == filepath.Clean(logPath) {
		return "", fmt.Errorf("document path %s would overwrite the log", out)
	}
	return out, nil
}

// WriteDocument renders the session and atomically replaces path with it.
func WriteDocument(path string, sess *model.Session, opts DocumentOptions) error {
	var buf bytes.Buffer
	if err := RenderDocument(&buf, sess, opts); err != nil {
		return err
	}
	if err := maybe.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// RenderDocument writes the overview page followed by one page per challenge.
func RenderDocument(w io.Writer, sess *model.Session, opts DocumentOptions) error {
	if err := RenderOverview(w, sess, opts); err != nil {
		return err
	}
	for j := 0; j < sess.ChallengeCount(); j++ {
		if _, err := io.WriteString(w, PageBreak); err != nil {
			return err
		}
		if err := RenderChallenge(w, sess, j, opts); err != nil {
			return err
		}
	}
	return nil
}

// RenderOverview draws every player's score progression and a summary table.
func RenderOverview(w io.Writer, sess *model.Session, opts DocumentOptions) error {
	if _, err := fmt.Fprintf(w, "Overview\n\n"); err != nil {
		return err
	}
	if sess.NumPlayers() == 0 {
		_, err := fmt.Fprintln(w, "No players found.")
		return err
	}

	series := make([]Series, 0, sess.NumPlayers())
	for i, label := range sess.Labels {
		series = append(series, Series{Name: label, Values: floats(sess.Scores[i]), Color: i})
	}
	po := opts.plot()
	for y := 0; y < sess.ScoreRange.Max; y += scoreGuideStep {
		po.Guides = append(po.Guides, float64(y))
	}
	if err := PlotLines(w, "Scores", series, po); err != nil {
		return err
	}

	rows := make([][]string, 0, sess.NumPlayers())
	for i, label := range sess.Labels {
		rows = append(rows, scoreRow(label, sess.Scores[i]))
	}
	t := table{
		headers: []string{"Player", "Challenges", "Final", "Best", "Mean", "StdDev"},
		rows:    rows,
		right:   map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
	}
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func scoreRow(label string, scores []int) []string {
	if len(scores) == 0 {
		return []string{label, "0", "-", "-", "-", "-"}
	}
	best := scores[0]
	for _, s := range scores[1:] {
		best = max(best, s)
	}
	mean, std := stat.MeanStdDev(floats(scores), nil)
	return []string{
		label,
		fmt.Sprintf("%d", len(scores)),
		fmt.Sprintf("%d", scores[len(scores)-1]),
		fmt.Sprintf("%d", best),
		fmt.Sprintf("%.2f", mean),
		formatStdDev(std),
	}
}

func formatStdDev(std float64) string {
	if math.IsNaN(std) {
		return "-"
	}
	return fmt.Sprintf("%.2f", std)
}

// RenderChallenge draws the play values of challenge j with each player's
// hand value as a dashed reference, then one delta bar chart per player.
func RenderChallenge(w io.Writer, sess *model.Session, j int, opts DocumentOptions) error {
	if j < 0 || j >= len(sess.Challenges) {
		return fmt.Errorf("challenge %d out of range", j+1)
	}
	c := sess.Challenges[j]
	if _, err := fmt.Fprintf(w, "Challenge %d\n\n", j+1); err != nil {
		return err
	}

	series := make([]Series, 0, 2*sess.NumPlayers())
	for i, label := range sess.Labels {
		play := c.Play[i]
		series = append(series, Series{Name: label, Values: floats(play), Color: i})
		if j < len(sess.HandValues[i]) && len(play) > 0 {
			ref := make([]float64, len(play))
			for k := range ref {
				ref[k] = float64(sess.HandValues[i][j])
			}
			series = append(series, Series{Name: label + " hand", Values: ref, Color: i, Dashed: true})
		}
	}
	po := opts.plot()
	po.Fixed = true
	po.Min = float64(sess.PlayRange.Min - 1)
	po.Max = float64(sess.PlayRange.Max + 1)
	if err := PlotLines(w, "Play values", series, po); err != nil {
		return err
	}

	for i, label := range sess.Labels {
		bo := BarOptions{
			Width:      opts.Width,
			Height:     opts.barHeight(),
			Min:        sess.DeltaRange.Min,
			Max:        sess.DeltaRange.Max,
			Color:      i,
			ForceColor: opts.ForceColor,
		}
		if err := PlotBars(w, "Deltas: "+label, c.Delta[i], bo); err != nil {
			return err
		}
	}
	return nil
}

func floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
