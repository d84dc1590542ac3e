package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/testutil"
	"github.com/toyz/matchgen/internal/utils"
)

const colorsSource = `package colors

import _ "example.com/demo/match"

// Color is a primary color.
// @match.Enum
type Color int

const (
	Red Color = iota
	Green
	Blue
)
`

var generatorFixture = map[string]string{
	"colors/colors.go": colorsSource,
	"hidden/hidden.go": `package hidden

import _ "example.com/demo/match"

// @match.Enum
type level int

const low level = 0
`,
	"plain/plain.go": `package plain

type Plain int
`,
	"plain/match_gen.go": `package plain

// Written by hand; the name matches the output file.
const Handwritten = true
`,
}

type generatorRun struct {
	gen    *Generator
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func fixtureConfig(dir string) Config {
	config := DefaultConfig()
	config.Dir = dir
	config.Env = testutil.Env()
	config.Concurrency = 2
	config.Verbose = true
	config.MarkerPath = testutil.MarkerPath
	config.RuntimePath = testutil.MarkerPath
	return config
}

func newGeneratorRun(config Config) *generatorRun {
	var out, errOut bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticVerbose)
	diagnostics.SetOutput(&out, &errOut)

	gen := NewGenerator(config, diagnostics)
	gen.Reporter().SetOutput(&errOut)
	return &generatorRun{gen: gen, out: &out, errOut: &errOut}
}

func TestGenerator_Run(t *testing.T) {
	dir := testutil.WriteModule(t, generatorFixture)
	generated := filepath.Join(dir, "colors", "match_gen.go")

	run := newGeneratorRun(fixtureConfig(dir))
	require.NoError(t, run.gen.Run(context.Background()))

	summary := run.gen.GetSummary()
	assert.Equal(t, 4, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.EnumsGenerated)
	assert.Equal(t, 1, summary.Diagnostics)
	assert.Equal(t, []string{generated}, summary.WrittenFiles)
	assert.Empty(t, summary.UnchangedFiles)
	assert.Empty(t, summary.RemovedFiles)

	content, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "// Code generated by matchgen. DO NOT EDIT.\n"))
	assert.Contains(t, string(content), "func MatchColor(")
	assert.Contains(t, string(content), `import "example.com/demo/match"`)

	assert.Contains(t, run.errOut.String(), "enumeration 'level' has no exported visibility")
	assert.Contains(t, run.errOut.String(), "[NoVisibility]")
	assert.Contains(t, run.errOut.String(), "hint: Export the type")
	assert.NotContains(t, run.errOut.String(), "does not require")

	assert.FileExists(t, filepath.Join(dir, "plain", "match_gen.go"), "hand-written file is kept")
	assert.NoFileExists(t, filepath.Join(dir, "hidden", "match_gen.go"))
}

func TestGenerator_RunIsIdempotent(t *testing.T) {
	dir := testutil.WriteModule(t, generatorFixture)
	generated := filepath.Join(dir, "colors", "match_gen.go")

	require.NoError(t, newGeneratorRun(fixtureConfig(dir)).gen.Run(context.Background()))
	first, err := os.ReadFile(generated)
	require.NoError(t, err)

	run := newGeneratorRun(fixtureConfig(dir))
	require.NoError(t, run.gen.Run(context.Background()))

	summary := run.gen.GetSummary()
	assert.Empty(t, summary.WrittenFiles)
	assert.Equal(t, []string{generated}, summary.UnchangedFiles)

	second, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestGenerator_RemovesStaleFile(t *testing.T) {
	dir := testutil.WriteModule(t, generatorFixture)
	generated := filepath.Join(dir, "colors", "match_gen.go")

	require.NoError(t, newGeneratorRun(fixtureConfig(dir)).gen.Run(context.Background()))
	require.FileExists(t, generated)

	unmarked := strings.Replace(colorsSource, "// @match.Enum\n", "", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "colors", "colors.go"), []byte(unmarked), 0o644))

	run := newGeneratorRun(fixtureConfig(dir))
	require.NoError(t, run.gen.Run(context.Background()))

	assert.Equal(t, []string{generated}, run.gen.GetSummary().RemovedFiles)
	assert.NoFileExists(t, generated)
	assert.FileExists(t, filepath.Join(dir, "plain", "match_gen.go"))
}

func TestGenerator_DryRun(t *testing.T) {
	dir := testutil.WriteModule(t, generatorFixture)
	config := fixtureConfig(dir)
	config.DryRun = true

	run := newGeneratorRun(config)
	require.NoError(t, run.gen.Run(context.Background()))

	generated := filepath.Join(dir, "colors", "match_gen.go")
	assert.Equal(t, []string{generated}, run.gen.GetSummary().WrittenFiles)
	assert.NoFileExists(t, generated)
	assert.Contains(t, run.out.String(), "Would write "+generated)
}

func TestGenerator_WarnsWhenRuntimeModuleMissing(t *testing.T) {
	dir := testutil.WriteModule(t, generatorFixture)
	config := fixtureConfig(dir)
	config.RuntimePath = DefaultConfig().RuntimePath

	run := newGeneratorRun(config)
	require.NoError(t, run.gen.Run(context.Background()))

	assert.Contains(t, run.errOut.String(), "does not require "+RuntimeModule)
	assert.Contains(t, run.errOut.String(), "go get "+RuntimeModule)
}

func TestGenerator_CustomOutputName(t *testing.T) {
	dir := testutil.WriteModule(t, generatorFixture)
	config := fixtureConfig(dir)
	config.Output = "enums_gen.go"
	config.Patterns = []string{"./colors"}

	run := newGeneratorRun(config)
	require.NoError(t, run.gen.Run(context.Background()))

	assert.Equal(t, 1, run.gen.GetSummary().PackagesProcessed)
	assert.FileExists(t, filepath.Join(dir, "colors", "enums_gen.go"))
	assert.NoFileExists(t, filepath.Join(dir, "colors", "match_gen.go"))
}

func TestGenerator_LoadFailure(t *testing.T) {
	dir := testutil.WriteModule(t, map[string]string{
		"broken/broken.go": "package broken\n\nfunc {\n",
	})

	run := newGeneratorRun(fixtureConfig(dir))
	err := run.gen.Run(context.Background())
	require.Error(t, err)

	var multiple *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multiple))
	assert.True(t, multiple.HasCode(errors.LoadErrorCode))
}

func TestGenerator_Cancelled(t *testing.T) {
	dir := testutil.WriteModule(t, generatorFixture)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newGeneratorRun(fixtureConfig(dir)).gen.Run(ctx)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "colors", "match_gen.go"))
}
