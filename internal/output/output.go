// Package output renders command results as aligned tables or indented JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

// MaxCellWidth is the widest a table cell is printed before truncation
const MaxCellWidth = 50

// NoResults is printed in table mode for an empty result
const NoResults = "No results found."

// Output writes data to w and status messages to errW
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
}

// New creates an Output. In JSON mode Print emits the raw value.
func New(jsonMode bool, w, errW io.Writer) *Output {
	return &Output{jsonMode: jsonMode, w: w, errW: errW}
}

// JSONMode reports whether results are printed as JSON
func (o *Output) JSONMode() bool {
	return o.jsonMode
}

// Print renders rows as a table, or jsonData as JSON in JSON mode
func (o *Output) Print(headers []string, rows [][]string, jsonData any) error {
	if o.jsonMode {
		return o.JSON(jsonData)
	}
	return o.Table(headers, rows)
}

// Table prints a header row, a dash separator, the rows and a count line
func (o *Output) Table(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(o.w, NoResults)
		return err
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = Truncate(cell, MaxCellWidth)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(o.w, "\nTotal: %d\n", len(rows))
	return err
}

// JSON prints v with two-space indentation
func (o *Output) JSON(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Fields prints label/value pairs, skipping empty values
func (o *Output) Fields(pairs [][2]string) error {
	tw := tabwriter.NewWriter(o.w, 0, 0, 1, ' ', 0)
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", p[0], p[1])
	}
	return tw.Flush()
}

// Success prints a status message to the error stream
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Truncate shortens s to at most width runes, ending in "..." when cut
func Truncate(s string, width int) string {
	// Tabs and newlines would break column alignment.
	s = strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
