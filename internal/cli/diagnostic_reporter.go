package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/utils"
)

// DiagnosticReporter renders skipped declarations as warnings and fatal
// errors with their context and suggestions.
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	out         io.Writer
	mark        *color.Color
	verbose     bool
}

// NewDiagnosticReporter creates a reporter writing to stderr. Warnings are
// suppressed when the diagnostic system is below the warning level.
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		diagnostics: diagnostics,
		out:         os.Stderr,
		mark:        color.New(color.FgYellow, color.Bold),
		verbose:     verbose,
	}
}

// SetOutput redirects the reporter and turns colors off
func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
	r.mark.DisableColor()
}

// ReportWarning prints a single warning with optional suggestions
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	if r.diagnostics != nil && !r.diagnostics.Enabled(utils.DiagnosticWarn) {
		return
	}

	r.mark.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
	for _, suggestion := range suggestions {
		fmt.Fprintf(r.out, "    hint: %s\n", suggestion)
	}
}

// ReportDiagnostics prints every non-fatal diagnostic of a run and returns
// how many were printed.
func (r *DiagnosticReporter) ReportDiagnostics(diagnostics []error) int {
	for _, diagnostic := range diagnostics {
		var matchgenErr errors.MatchgenError
		if !stderrors.As(diagnostic, &matchgenErr) {
			r.ReportWarning(diagnostic.Error())
			continue
		}

		var suggestions []string
		if r.verbose {
			suggestions = matchgenErr.Suggestions()
		}
		r.ReportWarning(fmt.Sprintf("%s [%s]", matchgenErr.Error(), matchgenErr.ErrorCode()), suggestions...)
	}
	return len(diagnostics)
}

// ReportError provides comprehensive error reporting for a fatal error
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	var multiple *errors.MultipleErrors
	if stderrors.As(err, &multiple) && len(multiple.Errors) > 0 {
		for _, item := range multiple.Errors {
			r.reportMatchgenError(item)
		}
		return
	}

	var matchgenErr errors.MatchgenError
	if stderrors.As(err, &matchgenErr) {
		r.reportMatchgenError(matchgenErr)
		return
	}

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
}

func (r *DiagnosticReporter) reportMatchgenError(err errors.MatchgenError) {
	title := err.ErrorCode().String()
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))

	fmt.Fprintf(r.out, "Message: %s\n\n", messageOf(err))

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc)
	}

	if context := err.Context(); len(context) > 0 {
		r.printContext(context)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose && err.Unwrap() != nil {
		r.printErrorChain(err.Unwrap())
	}
}

// printContext prints context entries sorted by key
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		err = stderrors.Unwrap(err)
	}
	fmt.Fprintf(r.out, "\n")
}

// messageOf returns the message and cause without the location prefix
func messageOf(err errors.MatchgenError) string {
	var base *errors.BaseError
	if !stderrors.As(err, &base) {
		return err.Error()
	}
	if base.Cause != nil {
		return fmt.Sprintf("%s: %v", base.Message, base.Cause)
	}
	return base.Message
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
