package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Bar tracks completed items of a fixed-size batch.
type Bar interface {
	Add(n int)
	Finish()
}

// New returns a bar on stderr when stderr is a terminal and a no-op bar otherwise.
func New(total int, description string) Bar {
	return NewWithWriter(os.Stderr, total, description, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewWithWriter returns a bar drawing to w, or a no-op bar when interactive is false.
func NewWithWriter(w io.Writer, total int, description string, interactive bool) Bar {
	if !interactive || total <= 0 {
		return noop{}
	}

	bar := progressbar.NewOptions64(int64(total),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &terminalBar{bar: bar}
}

type terminalBar struct {
	bar *progressbar.ProgressBar
}

func (b *terminalBar) Add(n int) {
	_ = b.bar.Add(n)
}

func (b *terminalBar) Finish() {
	_ = b.bar.Finish()
}

type noop struct{}

func (noop) Add(int) {}
func (noop) Finish() {}
