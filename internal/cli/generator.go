package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/generator"
	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/parser"
	"github.com/toyz/matchgen/internal/resolver"
	"github.com/toyz/matchgen/internal/utils"
	"github.com/toyz/matchgen/pkg/match"
)

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	EnumsGenerated    int
	Diagnostics       int
	TypeErrors        int
	WrittenFiles      []string
	UnchangedFiles    []string
	RemovedFiles      []string
	Cache             utils.CacheStats
}

// Generator coordinates the CLI generation process
type Generator struct {
	config      Config
	loader      *parser.Loader
	pipeline    *generator.Pipeline
	reader      *utils.FileReader
	files       *utils.FileProcessor
	modules     *ModuleResolver
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
}

// NewGenerator creates a CLI generator for a validated configuration
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(config.DiagnosticLevel())
	}

	loader := parser.NewLoader(config.Dir, config.Tests)
	loader.Env = config.Env

	reader := utils.NewFileReader()
	r := resolver.NewResolver(resolver.NewTypesResolver(), config.Marker(), config.Concurrency)

	return &Generator{
		config:      config,
		loader:      loader,
		pipeline:    generator.NewPipeline(r, config.PipelineOptions()),
		reader:      reader,
		files:       utils.NewFileProcessorWithReader(reader),
		modules:     NewModuleResolver(reader),
		reporter:    NewDiagnosticReporter(diagnostics, config.Verbose),
		diagnostics: diagnostics,
	}
}

// Reporter returns the reporter used for warnings and errors
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run loads the configured patterns and writes, refreshes or removes the
// generated file of every matched package.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	g.diagnostics.Debug("Loading patterns %v (tests: %t)", g.config.Patterns, g.config.Tests)
	g.diagnostics.StartProgress("Loading packages")
	compilations, typeErrors, err := g.loader.Load(ctx, g.config.Patterns...)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}
	g.diagnostics.EndProgress(true, "")

	g.summary.TypeErrors = len(typeErrors)
	for _, typeErr := range typeErrors {
		g.diagnostics.Verbose("type error (continuing): %v", typeErr)
	}

	if len(compilations) == 0 {
		g.diagnostics.Warn("No packages matched %v", g.config.Patterns)
		return nil
	}
	g.summary.PackagesProcessed = len(compilations)
	g.diagnostics.Info("Found %d packages to process", len(compilations))

	g.diagnostics.StartProgress("Resolving enumerations")
	results, err := g.pipeline.GenerateAll(ctx, compilations)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}
	g.diagnostics.EndProgress(true, "")

	for _, result := range results {
		g.summary.Diagnostics += g.reporter.ReportDiagnostics(result.Diagnostics)

		if result.Unit == nil {
			if err := g.removeStale(result.Compilation); err != nil {
				return err
			}
			continue
		}

		g.summary.EnumsGenerated += len(result.Unit.Descriptors)
		if err := g.writeUnit(result.Unit); err != nil {
			return err
		}
	}

	if len(g.summary.WrittenFiles) > 0 {
		g.checkRuntimeModule()
	}

	g.summary.Cache = g.pipeline.Cache().Stats()
	g.diagnostics.Verbose("Generation finished in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// writeUnit writes the unit unless the file on disk already holds the
// same bytes.
func (g *Generator) writeUnit(unit *models.GeneratedUnit) error {
	path := unit.Path()

	if existing, err := g.reader.ReadFile(path); err == nil && existing == unit.Content {
		g.diagnostics.Verbose("%s is up to date", path)
		g.summary.UnchangedFiles = append(g.summary.UnchangedFiles, path)
		return nil
	}

	if g.config.DryRun {
		g.diagnostics.Info("Would write %s", path)
		g.summary.WrittenFiles = append(g.summary.WrittenFiles, path)
		return nil
	}

	if err := os.WriteFile(path, []byte(unit.Content), 0o644); err != nil {
		return errors.WrapFileSystemError("write", path, err).
			WithContext("package", unit.PackagePath)
	}
	g.reader.InvalidateFile(path)

	g.diagnostics.Verbose("Wrote %s (%d enumerations)", path, len(unit.Descriptors))
	g.summary.WrittenFiles = append(g.summary.WrittenFiles, path)
	return nil
}

// removeStale deletes a previously generated file from a package that no
// longer has any qualifying enumeration. Hand-written files are kept.
func (g *Generator) removeStale(compilation *parser.Compilation) error {
	if compilation.Dir == "" {
		return nil
	}

	path := filepath.Join(compilation.Dir, g.config.Output)
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	generated, err := g.reader.IsGeneratedBy(path, generator.DefaultToolName)
	if err != nil || !generated {
		return nil
	}

	if g.config.DryRun {
		g.diagnostics.Info("Would remove stale %s", path)
		g.summary.RemovedFiles = append(g.summary.RemovedFiles, path)
		return nil
	}

	removed, err := g.files.RemoveFiles([]string{path})
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		g.diagnostics.Verbose("Removed stale %s", path)
	}
	g.summary.RemovedFiles = append(g.summary.RemovedFiles, removed...)
	return nil
}

// checkRuntimeModule warns when the enclosing module cannot import the
// default runtime package. Custom runtime paths are not checked.
func (g *Generator) checkRuntimeModule() {
	if g.config.RuntimePath != match.ImportPath {
		return
	}

	dir := g.config.Dir
	if dir == "" {
		dir = "."
	}

	goMod, ok, err := g.modules.RequiresRuntime(dir)
	if err != nil {
		g.diagnostics.Debug("Skipping module check: %v", err)
		return
	}
	if !ok {
		g.reporter.ReportWarning(
			goMod+" does not require "+RuntimeModule+"; generated files will not compile",
			"Run `go get "+RuntimeModule+"`",
		)
	}
}
