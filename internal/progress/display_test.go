package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	tests := map[string]struct {
		caps          TerminalCapabilities
		wantCheckmark string
		wantSet       int
	}{
		"unicode terminal": {
			caps:          TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			wantCheckmark: "✓",
			wantSet:       14,
		},
		"ascii fallback": {
			caps:          TerminalCapabilities{IsTTY: true, SupportsUnicode: false},
			wantCheckmark: "[OK]",
			wantSet:       9,
		},
		"not a terminal": {
			caps:          TerminalCapabilities{},
			wantCheckmark: "[OK]",
			wantSet:       9,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			symbols := SelectSymbols(tc.caps)
			assert.Equal(t, tc.wantCheckmark, symbols.Checkmark)
			assert.Equal(t, tc.wantSet, symbols.SpinnerSet)
		})
	}
}

func TestDisplayPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(TerminalCapabilities{IsTTY: false})
	d.SetOutput(&buf)

	d.StartStep("Creating tag")
	d.Succeed("Created tag v1.2.3")
	d.StartStep("Pushing changes")
	d.Fail("Pushing changes failed")

	out := buf.String()
	assert.Contains(t, out, "Creating tag...\n")
	assert.Contains(t, out, "[OK] Created tag v1.2.3\n")
	assert.Contains(t, out, "Pushing changes...\n")
	assert.Contains(t, out, "[FAIL] Pushing changes failed\n")
}
