package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tally output formats.
const (
	FormatList  = "list"
	FormatTable = "table"
)

// RenderTally prints win counts either as a bracketed list or as a table
// with each player's share of all recorded wins.
func RenderTally(w io.Writer, counts []int, format string) error {
	switch format {
	case "", FormatList:
		parts := make([]string, len(counts))
		for i, c := range counts {
			parts[i] = strconv.Itoa(c)
		}
		_, err := fmt.Fprintf(w, "[%s]\n", strings.Join(parts, ", "))
		return err
	case FormatTable:
		return renderTallyTable(w, counts)
	default:
		return fmt.Errorf("unknown tally format %q", format)
	}
}

func renderTallyTable(w io.Writer, counts []int) error {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "No wins recorded.")
		return err
	}
	rows := make([][]string, 0, len(counts))
	for i, c := range counts {
		rows = append(rows, []string{
			fmt.Sprintf("player %d", i),
			strconv.Itoa(c),
			fmt.Sprintf("%.2f%%", float64(c)/float64(total)*100),
		})
	}
	t := table{
		headers: []string{"Player", "Wins", "Share"},
		rows:    rows,
		right:   map[int]bool{1: true, 2: true},
	}
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %d\n", total)
	return err
}
