package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCapturedDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		level       DiagnosticLevel
		expectOut   string
		expectError string
	}{
		{DiagnosticSilent, "", ""},
		{DiagnosticError, "", "[ERROR] e\n"},
		{DiagnosticWarn, "", "[ERROR] e\n[WARN] w\n"},
		{DiagnosticInfo, "[INFO] i\n", "[ERROR] e\n[WARN] w\n"},
		{DiagnosticVerbose, "[INFO] i\n[VERBOSE] v\n", "[ERROR] e\n[WARN] w\n"},
		{DiagnosticDebug, "[INFO] i\n[VERBOSE] v\n[DEBUG] d\n", "[ERROR] e\n[WARN] w\n"},
	}

	for _, tt := range tests {
		d, out, errOut := newCapturedDiagnostics(tt.level)
		d.Error("e")
		d.Warn("w")
		d.Info("i")
		d.Verbose("v")
		d.Debug("d")

		assert.Equal(t, tt.expectOut, out.String(), "level %d", tt.level)
		assert.Equal(t, tt.expectError, errOut.String(), "level %d", tt.level)
	}
}

func TestDiagnosticSystem_Progress(t *testing.T) {
	d, out, _ := newCapturedDiagnostics(DiagnosticVerbose)

	d.StartProgress("Loading packages")
	d.EndProgress(true, "")
	d.StartProgress("Writing files")
	d.EndProgress(false, "Writing files failed")

	assert.Equal(t, "Loading packages...\n✓ Loading packages\nWriting files...\n✗ Writing files failed\n", out.String())

	quiet, quietOut, _ := newCapturedDiagnostics(DiagnosticInfo)
	quiet.StartProgress("Loading packages")
	quiet.EndProgress(true, "")
	assert.Empty(t, quietOut.String())
}

func TestDiagnosticSystem_ListAndSummary(t *testing.T) {
	d, out, _ := newCapturedDiagnostics(DiagnosticInfo)

	d.Indent()
	d.List("%s", "a.go")
	d.Unindent()
	d.Unindent()
	d.List("b.go")
	d.Summary("Done", map[string]interface{}{"written": 2, "skipped": 1})

	assert.Equal(t, "  - a.go\n- b.go\n\nDone\n   skipped: 1\n   written: 2\n", out.String())
}

func TestShouldUseColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, shouldUseColors())

	t.Setenv("NO_COLOR", "")
	assert.True(t, shouldUseColors())

	t.Setenv("FORCE_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, shouldUseColors())
}
