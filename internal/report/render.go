package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"typeshape/internal/common"
	"typeshape/internal/diagnostic"
)

// Format selects how rows are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatDump  Format = "dump"
)

// ErrUnknownFormat is returned for format names other than table, json and
// dump.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats returns the supported format names.
func Formats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatDump)}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatDump:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (expected one of %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
}

// Options configures Write.
type Options struct {
	Format  Format
	NoColor bool
}

// Write renders rows to w. The zero Options write a table.
func Write(w io.Writer, rows []Row, opts Options) error {
	switch opts.Format {
	case FormatTable, "":
		writeTable(w, rows, opts.NoColor)
		return nil

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode rows: %w", err)
		}

		return nil

	case FormatDump:
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(w, rows)

		return nil

	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, opts.Format)
	}
}

var tableHeaders = []string{"TYPE", "KIND", "SHAPE", "ELEMENT", "BASE", "CONSTRUCTOR"}

func writeTable(w io.Writer, rows []Row, noColor bool) {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		base := "-"
		if len(r.Ancestors) > 0 {
			base = common.ShortID(r.Ancestors[0])
		}

		cells = append(cells, []string{
			typeCell(r),
			r.Kind,
			r.Shape(),
			orDash(common.ShortID(r.Element)),
			base,
			orDash(constructorCell(r)),
		})
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = utf8.RuneCountInString(h)
	}

	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	header := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if noColor {
		header.DisableColor()
		gray.DisableColor()
	}

	for i, h := range tableHeaders {
		header.Fprint(w, pad(h, widths[i], i == len(widths)-1))
	}
	fmt.Fprintln(w)

	for i, width := range widths {
		gray.Fprint(w, pad(strings.Repeat("─", width), width, i == len(widths)-1))
	}
	fmt.Fprintln(w)

	for _, row := range cells {
		for i, cell := range row {
			fmt.Fprint(w, pad(cell, widths[i], i == len(row)-1))
		}
		fmt.Fprintln(w)
	}
}

func typeCell(r Row) string {
	id := common.ShortID(r.ID)
	if len(r.TypeParams) > 0 {
		id = strings.TrimSuffix(id, "["+strings.Repeat(",", len(r.TypeParams)-1)+"]")
		id += "[" + strings.Join(r.TypeParams, ",") + "]"
	}

	return id
}

func constructorCell(r Row) string {
	if r.Constructor == "" {
		return ""
	}

	params := make([]string, len(r.Params))
	for i, p := range r.Params {
		params[i] = p.Name + " " + common.ShortID(p.Type)
	}

	return r.Constructor + "(" + strings.Join(params, ", ") + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// pad right-pads s to width and separates columns with two spaces. The last
// column is not padded.
func pad(s string, width int, last bool) string {
	if last {
		return s
	}

	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}

	return s + "  "
}

// WriteDiagnostics writes one line per finding, errors first, colored by
// severity.
func WriteDiagnostics(w io.Writer, diags diagnostic.Diagnostics, noColor bool) {
	colors := map[diagnostic.Severity]*color.Color{
		diagnostic.SeverityError:   color.New(color.FgRed, color.Bold),
		diagnostic.SeverityWarning: color.New(color.FgYellow),
		diagnostic.SeverityInfo:    color.New(color.FgHiBlack),
	}

	for _, d := range diags.All() {
		c := colors[d.Severity]
		if noColor {
			c.DisableColor()
		}

		c.Fprintf(w, "%-7s ", d.Severity)
		fmt.Fprintln(w, common.ShortID(d.String()))
	}
}
