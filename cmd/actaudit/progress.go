package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
)

// progressPrinter renders pipeline events on one refreshing line when the
// writer is a terminal and as plain lines otherwise.
type progressPrinter struct {
	out     io.Writer
	tty     bool
	lastLen int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, tty: isTerminal(out)}
}

func (p *progressPrinter) handle(ev pipeline.Event) {
	line := formatEvent(ev)
	if !p.tty {
		fmt.Fprintln(p.out, line)
		return
	}
	pad := ""
	if n := p.lastLen - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintf(p.out, "\r%s%s", line, pad)
	p.lastLen = len(line)
	if ev.Done {
		fmt.Fprintln(p.out)
		p.lastLen = 0
	}
}

func formatEvent(ev pipeline.Event) string {
	var b strings.Builder
	if ev.Index > 0 {
		fmt.Fprintf(&b, "[%d/%d] ", ev.Index, ev.Total)
	}
	b.WriteString(ev.Message)
	if ev.Err != nil {
		fmt.Fprintf(&b, ": %v", ev.Err)
	}
	return b.String()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
