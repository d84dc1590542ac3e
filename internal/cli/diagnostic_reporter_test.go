package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/utils"
)

func newCapturedReporter(level utils.DiagnosticLevel, verbose bool) (*DiagnosticReporter, *bytes.Buffer) {
	var out bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(level)
	diagnostics.SetOutput(&out, &out)

	reporter := NewDiagnosticReporter(diagnostics, verbose)
	reporter.SetOutput(&out)
	return reporter, &out
}

func TestDiagnosticReporter_ReportDiagnostics(t *testing.T) {
	loc := errors.SourceLocation{File: "colors.go", Line: 6, Column: 6}
	diagnostics := []error{
		errors.NewNoVisibilityError("level", loc),
		fmt.Errorf("plain failure"),
	}

	reporter, out := newCapturedReporter(utils.DiagnosticInfo, false)
	assert.Equal(t, 2, reporter.ReportDiagnostics(diagnostics))
	assert.Equal(t,
		"! colors.go:6:6: enumeration 'level' has no exported visibility and was skipped [NoVisibility]\n"+
			"! plain failure\n",
		out.String())

	verbose, verboseOut := newCapturedReporter(utils.DiagnosticInfo, true)
	verbose.ReportDiagnostics(diagnostics[:1])
	assert.Contains(t, verboseOut.String(), "    hint: Export the type by renaming it to 'Level'\n")

	quiet, quietOut := newCapturedReporter(utils.DiagnosticError, true)
	quiet.ReportDiagnostics(diagnostics)
	assert.Empty(t, quietOut.String())
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := errors.WrapFileSystemError("write", "colors/match_gen.go", cause).
		WithContext("package", "example.com/demo/colors").
		WithSuggestions("Check the directory is writable")

	reporter, out := newCapturedReporter(utils.DiagnosticInfo, true)
	reporter.ReportError(err)

	assert.Equal(t, `
ERROR: Code Generation Failed
=============================

Type: FileSystemError
---------------------

Message: failed to write file 'colors/match_gen.go': permission denied

Context:
   Operation: write
   Package: example.com/demo/colors
   Path: colors/match_gen.go

Suggestions:
   1. Check the directory is writable

Error Chain:
   1. permission denied

`, out.String())
}

func TestDiagnosticReporter_ReportMultipleErrors(t *testing.T) {
	multiple := errors.NewMultipleErrors()
	multiple.Add(errors.WrapLoadError([]string{"example.com/demo/a"}, fmt.Errorf("expected 'IDENT'")))
	multiple.Add(errors.WrapLoadError([]string{"example.com/demo/b"}, fmt.Errorf("expected ';'")))

	reporter, out := newCapturedReporter(utils.DiagnosticInfo, false)
	reporter.ReportError(multiple)

	assert.Contains(t, out.String(), "Message: failed to load packages [example.com/demo/a]: expected 'IDENT'")
	assert.Contains(t, out.String(), "Message: failed to load packages [example.com/demo/b]: expected ';'")
	assert.NotContains(t, out.String(), "Error Chain")
}

func TestDiagnosticReporter_ReportPlainError(t *testing.T) {
	reporter, out := newCapturedReporter(utils.DiagnosticInfo, false)
	reporter.ReportError(fmt.Errorf("boom"))
	assert.Contains(t, out.String(), "Message: boom\n")
}

func TestFormatContextKey(t *testing.T) {
	assert.Equal(t, "Import Path", formatContextKey("import_path"))
	assert.Equal(t, "Patterns", formatContextKey("patterns"))
}
