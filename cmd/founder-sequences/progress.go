package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// progressReporter renders a one-line stage progress bar to stderr when
// stderr is a terminal, and stays silent otherwise (stage transitions are
// already logged). The bar width adapts to the terminal.
type progressReporter struct {
	out     *os.File
	isTTY   bool
	cols    int
	started bool
}

func newProgressReporter(out *os.File) *progressReporter {
	p := &progressReporter{out: out, cols: 80}
	ws, err := unix.IoctlGetWinsize(int(out.Fd()), unix.TIOCGWINSZ)
	if err == nil {
		p.isTTY = true
		if ws.Col > 0 {
			p.cols = int(ws.Col)
		}
	}
	return p
}

func (p *progressReporter) report(done, total uint64) {
	if !p.isTTY || total == 0 {
		return
	}
	p.started = true
	barWidth := p.cols - 20
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(uint64(barWidth) * done / total)
	bar := make([]byte, barWidth)
	for i := range bar {
		if i < filled {
			bar[i] = '='
		} else {
			bar[i] = ' '
		}
	}
	fmt.Fprintf(p.out, "\r[%s] %d/%d", bar, done, total)
}

func (p *progressReporter) finish() {
	if p.isTTY && p.started {
		fmt.Fprintln(p.out)
	}
}
