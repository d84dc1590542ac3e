package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/matchgen/internal/cli"
	"github.com/toyz/matchgen/internal/utils"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const dirFlag = "dir"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// app carries the output streams shared by every subcommand
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	captured bool // streams are not the process's own
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		captured: stdout != io.Writer(os.Stdout) || stderr != io.Writer(os.Stderr),
	}

	root := &cobra.Command{
		Use:   "matchgen",
		Short: "Generate exhaustive match helpers for annotated Go enumerations",
		Long: `matchgen finds defined types marked with // @match.Enum and writes
Match<Name>, Match<Name>Func and Match<Name>Value helpers for each of them
into one generated file per package.

Package patterns follow the go tool; "./..." is used when none are given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringP(dirFlag, "C", "", "Run as if matchgen was started in this directory")
	cli.Flags(flags)

	root.AddCommand(a.newGenerateCommand(), a.newCleanCommand(), a.newVersionCommand())
	return root
}

func (a *app) newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Write match helpers for every annotated enumeration",
		Example: `  matchgen generate
  matchgen generate ./internal/...
  matchgen generate --dry-run -v ./...`,
		RunE: a.runGenerate,
	}
}

func (a *app) newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [patterns...]",
		Short: "Remove generated match helper files",
		Long: `clean removes the generated file from every directory the patterns
cover. Only files carrying the matchgen header are removed. Patterns must
name directories, optionally ending in /... to include subdirectories.`,
		RunE: a.runClean,
	}
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the matchgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "matchgen %s\n", buildVersion())
		},
	}
}

// setup loads the configuration and creates the diagnostic system. Errors
// are already reported when it returns.
func (a *app) setup(cmd *cobra.Command, args []string) (cli.Config, *utils.DiagnosticSystem, *cli.DiagnosticReporter, error) {
	dir, err := cmd.Flags().GetString(dirFlag)
	if err != nil {
		return cli.Config{}, nil, nil, err
	}

	vp := cli.NewViper(dir)
	if err := vp.BindPFlags(cmd.Flags()); err != nil {
		return cli.Config{}, nil, nil, err
	}

	config, err := cli.LoadConfig(vp, args)
	config.Dir = dir

	diagnostics := utils.NewDiagnosticSystem(config.DiagnosticLevel())
	reporter := cli.NewDiagnosticReporter(diagnostics, config.Verbose)
	if a.captured {
		diagnostics.SetOutput(a.stdout, a.stderr)
		reporter.SetOutput(a.stderr)
	}

	if err != nil {
		reporter.ReportError(err)
		return config, nil, nil, err
	}
	return config, diagnostics, reporter, nil
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	config, diagnostics, reporter, err := a.setup(cmd, args)
	if err != nil {
		return err
	}

	diagnostics.Section("matchgen")
	if config.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Patterns: %s", strings.Join(config.Patterns, ", "))
		diagnostics.List("Output: %s", config.Output)
		diagnostics.List("Marker: %s", config.Marker().Qualified())
		diagnostics.List("Runtime: %s", config.RuntimePath)
		diagnostics.List("Concurrency: %d", config.Concurrency)
	}

	generator := cli.NewGenerator(config, diagnostics)
	if a.captured {
		generator.Reporter().SetOutput(a.stderr)
	}

	if err := generator.Run(cmd.Context()); err != nil {
		reporter.ReportError(err)
		return err
	}

	summary := generator.GetSummary()
	written := "Files written"
	removed := "Files removed"
	if config.DryRun {
		written = "Files to write"
		removed = "Files to remove"
	}
	diagnostics.Summary("Generation complete", map[string]interface{}{
		"Packages processed":   summary.PackagesProcessed,
		"Enumerations":         summary.EnumsGenerated,
		"Declarations skipped": summary.Diagnostics,
		written:                len(summary.WrittenFiles),
		"Files unchanged":      len(summary.UnchangedFiles),
		removed:                len(summary.RemovedFiles),
	})

	diagnostics.Verbose("Emission cache: %d entries, %d hits, %d misses (%.0f%% hit rate)",
		summary.Cache.Size, summary.Cache.Hits, summary.Cache.Misses, 100*summary.Cache.HitRate())

	if config.Verbose && len(summary.WrittenFiles) > 0 {
		diagnostics.Subsection("Generated Files")
		for _, file := range summary.WrittenFiles {
			diagnostics.List("%s", file)
		}
	}
	return nil
}

func (a *app) runClean(cmd *cobra.Command, args []string) error {
	config, diagnostics, reporter, err := a.setup(cmd, args)
	if err != nil {
		return err
	}

	diagnostics.StartProgress("Cleaning generated files")
	removed, err := cli.NewCleaner(config.Dir).CleanGeneratedFiles(config.Patterns, config.Output, config.DryRun)
	if err != nil {
		diagnostics.EndProgress(false, "")
		reporter.ReportError(err)
		return err
	}
	diagnostics.EndProgress(true, "")

	verb := "Removed"
	if config.DryRun {
		verb = "Would remove"
	}
	for _, file := range removed {
		diagnostics.List("%s %s", verb, file)
	}
	diagnostics.Success("%s %d generated files", verb, len(removed))
	return nil
}

func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}
