package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// Summary is a two column label/value table printed after a pass
type Summary struct {
	Title string
	rows  []table.Row
}

// NewSummary creates a summary with a title such as "Dedupe corpus exact (DRY RUN)"
func NewSummary(title string) *Summary {
	return &Summary{Title: title}
}

// Add appends a row
func (s *Summary) Add(label string, value any) *Summary {
	s.rows = append(s.rows, table.Row{label, value})
	return s
}

// AddCounts appends one row per key of counts, sorted by key
func (s *Summary) AddCounts(prefix string, counts map[string]int) *Summary {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Add(fmt.Sprintf("%s%s", prefix, k), counts[k])
	}
	return s
}

// Len returns the number of rows
func (s *Summary) Len() int {
	return len(s.rows)
}

// Render returns the title line followed by the table
func (s *Summary) Render(fancy bool) string {
	tw := table.NewWriter()
	if fancy {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	for _, row := range s.rows {
		tw.AppendRow(row)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	// The title sits above the table; go-pretty wraps titles to the body width
	if s.Title == "" {
		return tw.Render()
	}
	return s.Title + "\n" + tw.Render()
}

// Print renders the summary to w, using rounded borders on terminals
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Render(isTerminal(w)))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Table renders rows with a header using the summary styling
func Table(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
