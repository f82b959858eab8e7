package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"aim/internal/diag"
	"aim/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	mutePaint = color.New(color.Faint)
)

// Pretty renders a bag for terminals, one diagnostic per stanza:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	    <source line>
//	    <caret underline>
//	  note: <message> (per note, with its own location)
//
// The bag is expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}

	for i := 0; i < limit; i++ {
		d := items[i]
		printHeadline(w, fs, d.Primary, d.Severity, d.Code, d.Message, opts)
		printSourceLine(w, fs, d.Primary, opts)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				loc := formatLocation(fs, n.Span, opts.PathMode)
				fmt.Fprintf(w, "  %s %s: %s\n", paint(opts, mutePaint, "note:"), loc, n.Msg)
			}
		}
	}

	if limit < len(items) {
		fmt.Fprintf(w, "... and %d more diagnostics\n", len(items)-limit)
	}
}

func printHeadline(w io.Writer, fs *source.FileSet, sp source.Span, sev diag.Severity, code diag.Code, msg string, opts PrettyOpts) {
	sevText := sev.String()
	if opts.Color {
		switch sev {
		case diag.SevError:
			sevText = errColor.Sprint(sevText)
		case diag.SevWarning:
			sevText = warnColor.Sprint(sevText)
		default:
			sevText = infoColor.Sprint(sevText)
		}
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", formatLocation(fs, sp, opts.PathMode), sevText, code.ID(), msg)
}

// printSourceLine echoes the first line of the span with a caret underline.
// Underline width follows display cells, not bytes, so wide runes in
// verbatim strings stay aligned.
func printSourceLine(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	file := fs.Get(sp.File)
	if file == nil || len(file.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	line := file.GetLine(start.Line)
	if line == "" && sp.Empty() {
		return
	}

	fmt.Fprintf(w, "    %s\n", line)

	prefix := cellWidth(line, int(start.Col)-1)
	spanCols := 1
	if end.Line == start.Line && end.Col > start.Col {
		spanCols = cellWidthBetween(line, int(start.Col)-1, int(end.Col)-1)
	}
	underline := strings.Repeat(" ", prefix) + "^" + strings.Repeat("~", maxInt(spanCols-1, 0))
	fmt.Fprintf(w, "    %s\n", paint(opts, mutePaint, underline))
}

func formatLocation(fs *source.FileSet, sp source.Span, mode PathMode) string {
	file := fs.Get(sp.File)
	if file == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(file, fs, mode), start.Line, start.Col)
}

func displayPath(file *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return file.FormatPath("absolute", "")
	case PathModeRelative:
		return file.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return file.FormatPath("basename", "")
	}
	return file.FormatPath("auto", fs.BaseDir())
}

// cellWidth returns the display width of the first n bytes of line.
// Columns are byte offsets within the line, so the prefix is a byte slice.
func cellWidth(line string, n int) int {
	if n <= 0 {
		return 0
	}
	if n > len(line) {
		n = len(line)
	}
	return runewidth.StringWidth(line[:n])
}

// cellWidthBetween measures display cells between two byte columns.
func cellWidthBetween(line string, from, to int) int {
	w := cellWidth(line, to) - cellWidth(line, from)
	if w < 1 {
		return 1
	}
	return w
}

func paint(opts PrettyOpts, c *color.Color, s string) string {
	if !opts.Color {
		return s
	}
	return c.Sprint(s)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
