package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	location *color.Color
	caret    *color.Color
	note     *color.Color
	gutter   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevFatal:   color.New(color.FgMagenta, color.Bold),
		},
		location: color.New(color.Bold),
		caret:    color.New(color.FgGreen, color.Bold),
		note:     color.New(color.FgBlue, color.Bold),
		gutter:   color.New(color.FgBlue),
	}
	all := []*color.Color{p.location, p.caret, p.note, p.gutter}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes the diagnostics of bag in the order of bag.Items():
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline of the span and, when
// enabled, the notes in the same format.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(fs, d.Primary, opts)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.location.Sprint(loc),
			p.sev[d.Severity].Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message)
		excerpt(w, fs, d.Primary, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if n.Span.File == 0 {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// excerpt prints the primary line, context lines around it and the
// underline. Spans covering several lines are underlined to the end of
// their first line.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, context int8, p palette) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	width := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		if line > start.Line && int(line-1) > len(f.LineIdx) {
			break
		}
		text := f.GetLine(line)
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", width, line), text)
		if line != start.Line {
			continue
		}
		n := 1
		switch {
		case end.Line == start.Line && end.Col > start.Col:
			n = int(end.Col - start.Col)
		case end.Line > start.Line:
			n = max(len(text)-int(start.Col)+1, 1)
		}
		pad := strings.Repeat(" ", int(start.Col)-1)
		under := "^" + strings.Repeat("~", n-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad, p.caret.Sprint(under))
	}
}
