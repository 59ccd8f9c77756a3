// Package console renders namespace events and tree diffs for a terminal.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/config"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes one line per namespace event. It implements [vfs.Observer].
type Printer struct {
	out    io.Writer
	events map[vfs.EventKind]*color.Color
	added  *color.Color
	gone   *color.Color
	failed *color.Color
}

// NewPrinter creates a Printer writing to out. mode is one of the
// config.Color* values; auto enables color only when out is a terminal.
func NewPrinter(out io.Writer, mode string) *Printer {
	p := &Printer{
		out: out,
		events: map[vfs.EventKind]*color.Color{
			vfs.EventCreated: color.New(color.FgGreen),
			vfs.EventDeleted: color.New(color.FgRed),
			vfs.EventMoved:   color.New(color.FgYellow),
			vfs.EventRenamed: color.New(color.FgCyan),
		},
		added:  color.New(color.FgGreen),
		gone:   color.New(color.FgRed),
		failed: color.New(color.FgRed, color.Bold),
	}

	enable := UseColor(out, mode)
	for _, c := range p.all() {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) all() []*color.Color {
	out := []*color.Color{p.added, p.gone, p.failed}
	for _, c := range p.events {
		out = append(out, c)
	}
	return out
}

// UseColor resolves a color mode for w
func UseColor(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) OnEvent(e vfs.Event) {
	c, ok := p.events[e.Kind]
	if !ok {
		fmt.Fprintln(p.out, e.Message())
		return
	}
	fmt.Fprintln(p.out, c.Sprint(e.Message()))
}

// Println writes a plain line
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Error writes err highlighted
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, p.failed.Sprint("error: "+err.Error()))
}

// PrintDiff writes the line diff between two tree renderings, marking added
// lines with '+' and removed lines with '-'. Nothing is written when they
// are equal.
func (p *Printer) PrintDiff(before, after string) {
	for _, l := range TreeDiff(before, after) {
		switch l.Op {
		case OpAdd:
			fmt.Fprintln(p.out, p.added.Sprint("+ "+l.Text))
		case OpRemove:
			fmt.Fprintln(p.out, p.gone.Sprint("- "+l.Text))
		default:
			fmt.Fprintln(p.out, "  "+l.Text)
		}
	}
}
