package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"crust/internal/diag"
	"crust/internal/source"
)

const ellipsis = "…"

// ширина считается без East Asian ambiguous, чтобы вывод не зависел от локали
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

type palette struct {
	header *color.Color
	sev    map[diag.Severity]*color.Color
	mark   *color.Color
	gutter *color.Color
	note   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header: color.New(color.Bold),
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		mark:   color.New(color.FgRed, color.Bold),
		gutter: color.New(color.FgBlue),
		note:   color.New(color.FgGreen),
	}
	all := []*color.Color{p.header, p.mark, p.gutter, p.note}
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

// Pretty форматирует диагностики в человекочитаемый вид в порядке bag.Items().
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку с окном контекста вокруг Span и подчёркивание ^~~~, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	window := opts.Window
	if window == 0 {
		window = DefaultWindow
	}

	for i := range bag.Items() {
		d := &bag.Items()[i]
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		path := formatPath(f, opts.PathMode, fs.BaseDir())

		fmt.Fprintf(w, "%s %s %s\n",
			pal.header.Sprintf("%s:%d:%d:", path, start.Line, start.Col),
			pal.sev[d.Severity].Sprintf("%s %s:", d.Severity, d.Code.ID()),
			pal.header.Sprint(d.Message),
		)
		writeSnippet(w, f, d.Primary, start.Line, window, pal)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := fs.Get(n.Span.File)
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s (%s:%d:%d)\n", pal.note.Sprint("= note:"), n.Msg,
					formatPath(nf, opts.PathMode, fs.BaseDir()), ns.Line, ns.Col)
			}
		}
	}
}

// snippet is the rendered source line split around the span.
type snippet struct {
	before, marked, after string
}

// cutSnippet вырезает строку span-а с не более чем window рун до и после него.
// Span за пределами строки обрезается по её границам.
func cutSnippet(f *source.File, span source.Span, window int) snippet {
	ls := f.LineSpan(span.Start)
	start := min(max(span.Start, ls.Start), ls.End)
	end := min(max(span.End, start), ls.End)

	before := []rune(string(f.Content[ls.Start:start]))
	after := []rune(string(f.Content[end:ls.End]))
	s := snippet{marked: string(f.Content[start:end])}

	if window >= 0 && len(before) > window {
		s.before = ellipsis + string(before[len(before)-window:])
	} else {
		s.before = string(before)
	}
	if window >= 0 && len(after) > window {
		s.after = string(after[:window]) + ellipsis
	} else {
		s.after = string(after)
	}
	return s
}

func writeSnippet(w io.Writer, f *source.File, span source.Span, line uint32, window int, pal palette) {
	s := cutSnippet(f, span, window)
	num := strconv.FormatUint(uint64(line), 10)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(w, "%s %s%s%s\n", pal.gutter.Sprint(num+" |"), s.before, pal.mark.Sprint(s.marked), s.after)

	width := max(widthCond.StringWidth(s.marked), 1)
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprint(pad+" |"),
		strings.Repeat(" ", widthCond.StringWidth(s.before)), pal.mark.Sprint(underline))
}
