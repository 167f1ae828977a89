// Package progress renders step progress for long running release
// operations. On a TTY it drives an animated spinner, otherwise it
// degrades to plain line output.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Display reports named steps to the user. Steps are started with
// StartStep and finished with Succeed or Fail.
type Display struct {
	caps    TerminalCapabilities
	symbols ProgressSymbols
	out     io.Writer
	spin    *spinner.Spinner
}

// NewDisplay creates a display for the given terminal capabilities.
func NewDisplay(caps TerminalCapabilities) *Display {
	return &Display{
		caps:    caps,
		symbols: SelectSymbols(caps),
		out:     os.Stdout,
	}
}

// SetOutput redirects output, mainly for tests. Setting an output
// disables the spinner animation.
func (d *Display) SetOutput(w io.Writer) {
	d.out = w
	d.caps.IsTTY = false
}

// StartStep begins a new step. Any running spinner for a previous step
// is stopped first.
func (d *Display) StartStep(message string) {
	d.stopSpinner()

	if !d.caps.IsTTY {
		fmt.Fprintf(d.out, "%s...\n", message)
		return
	}

	d.spin = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(d.out))
	d.spin.Suffix = " " + message
	d.spin.Start()
}

// Succeed finishes the current step with the success symbol.
func (d *Display) Succeed(message string) {
	d.stopSpinner()
	fmt.Fprintf(d.out, "%s %s\n", d.symbols.Checkmark, message)
}

// Fail finishes the current step with the failure symbol.
func (d *Display) Fail(message string) {
	d.stopSpinner()
	fmt.Fprintf(d.out, "%s %s\n", d.symbols.Failure, message)
}

func (d *Display) stopSpinner() {
	if d.spin != nil {
		d.spin.Stop()
		d.spin = nil
	}
}
