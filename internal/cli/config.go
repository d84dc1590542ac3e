package cli

import (
	stderrors "errors"
	"path"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/generator"
	"github.com/toyz/matchgen/internal/resolver"
	"github.com/toyz/matchgen/internal/utils"
	"github.com/toyz/matchgen/pkg/match"
)

// Configuration keys. Each one is a flag name, a .matchgen.yaml key and,
// upper-cased with the MATCHGEN_ prefix, an environment variable.
const (
	OutputKey       = "output"
	TestsKey        = "tests"
	ConcurrencyKey  = "concurrency"
	VerboseKey      = "verbose"
	QuietKey        = "quiet"
	DryRunKey       = "dry-run"
	MarkerPathKey   = "marker-path"
	MarkerNameKey   = "marker-name"
	RuntimePathKey  = "runtime-path"
	RuntimeAliasKey = "runtime-alias"
)

const (
	EnvPrefix  = "MATCHGEN"
	ConfigName = ".matchgen"
)

// DefaultPattern is loaded when no package pattern is given
const DefaultPattern = "./..."

var defaultRuntimeAlias = path.Base(match.ImportPath)

// Config holds the configuration for a generate or clean run
type Config struct {
	// Patterns are go/packages patterns, relative to Dir
	Patterns []string

	// Dir is the directory patterns are resolved in; empty means the
	// current directory
	Dir string

	// Env is the build system environment; nil means the current one
	Env []string

	Output       string
	Tests        bool
	Concurrency  int
	Verbose      bool
	Quiet        bool
	DryRun       bool
	MarkerPath   string
	MarkerName   string
	RuntimePath  string
	RuntimeAlias string
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Patterns:     []string{DefaultPattern},
		Output:       generator.DefaultFileName,
		Concurrency:  runtime.GOMAXPROCS(0),
		MarkerPath:   match.ImportPath,
		MarkerName:   match.MarkerName,
		RuntimePath:  match.ImportPath,
		RuntimeAlias: defaultRuntimeAlias,
	}
}

// Flags registers every configuration key on the flag set
func Flags(flags *pflag.FlagSet) {
	def := DefaultConfig()

	flags.StringP(OutputKey, "o", def.Output, "Base name of the generated file in each package")
	flags.Bool(TestsKey, def.Tests, "Also scan test variants of each package")
	flags.IntP(ConcurrencyKey, "j", def.Concurrency, "Maximum number of declarations resolved in parallel")
	flags.BoolP(VerboseKey, "v", def.Verbose, "Enable verbose output")
	flags.BoolP(QuietKey, "q", def.Quiet, "Only show errors")
	flags.BoolP(DryRunKey, "n", def.DryRun, "Report what would change without touching any file")
	flags.String(MarkerPathKey, def.MarkerPath, "Import path of the package declaring the marker type")
	flags.String(MarkerNameKey, def.MarkerName, "Name of the marker type")
	flags.String(RuntimePathKey, def.RuntimePath, "Import path of the runtime package generated files call")
	flags.String(RuntimeAliasKey, def.RuntimeAlias, "Preferred import name of the runtime package in generated files")
}

// NewViper creates a viper instance reading MATCHGEN_* variables and an
// optional .matchgen.yaml from dir.
func NewViper(dir string) *viper.Viper {
	def := DefaultConfig()

	vp := viper.New()
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vp.AutomaticEnv()

	vp.SetConfigName(ConfigName)
	vp.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	vp.AddConfigPath(dir)

	vp.SetDefault(OutputKey, def.Output)
	vp.SetDefault(TestsKey, def.Tests)
	vp.SetDefault(ConcurrencyKey, def.Concurrency)
	vp.SetDefault(VerboseKey, def.Verbose)
	vp.SetDefault(QuietKey, def.Quiet)
	vp.SetDefault(DryRunKey, def.DryRun)
	vp.SetDefault(MarkerPathKey, def.MarkerPath)
	vp.SetDefault(MarkerNameKey, def.MarkerName)
	vp.SetDefault(RuntimePathKey, def.RuntimePath)
	vp.SetDefault(RuntimeAliasKey, def.RuntimeAlias)
	return vp
}

// LoadConfig reads the optional config file and builds a validated Config.
// Flags bound with BindPFlags take precedence over the environment, the
// file and the defaults.
func LoadConfig(vp *viper.Viper, patterns []string) (Config, error) {
	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return Config{}, errors.WrapConfigurationError(ConfigName+".yaml", "read", err)
		}
	}

	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	config := Config{
		Patterns:     patterns,
		Output:       vp.GetString(OutputKey),
		Tests:        vp.GetBool(TestsKey),
		Concurrency:  vp.GetInt(ConcurrencyKey),
		Verbose:      vp.GetBool(VerboseKey),
		Quiet:        vp.GetBool(QuietKey),
		DryRun:       vp.GetBool(DryRunKey),
		MarkerPath:   vp.GetString(MarkerPathKey),
		MarkerName:   vp.GetString(MarkerNameKey),
		RuntimePath:  vp.GetString(RuntimePathKey),
		RuntimeAlias: vp.GetString(RuntimeAliasKey),
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks every key, reporting the first invalid one
func (c Config) Validate() error {
	checks := []error{
		utils.NewValidatorChain(
			utils.NotEmpty(OutputKey),
			utils.HasSuffix(OutputKey, ".go"),
			utils.Custom(OutputKey, "must be a file name, not a path", func(v string) bool {
				return !strings.ContainsAny(v, `/\`)
			}),
			utils.Custom(OutputKey, "must not be a test file", func(v string) bool {
				return !strings.HasSuffix(v, "_test.go")
			}),
		).Validate(c.Output),
		utils.Custom(ConcurrencyKey, "must not be negative", func(v int) bool { return v >= 0 })(c.Concurrency),
		utils.Custom(QuietKey, "cannot be combined with verbose", func(v bool) bool { return !(v && c.Verbose) })(c.Quiet),
		utils.IsValidImportPath(MarkerPathKey)(c.MarkerPath),
		utils.IsValidImportPath(RuntimePathKey)(c.RuntimePath),
		utils.NewValidatorChain(
			utils.IsValidGoIdentifier(MarkerNameKey),
			utils.Custom(MarkerNameKey, "must be exported", isExported),
		).Validate(c.MarkerName),
		utils.NewValidatorChain(
			utils.IsValidGoIdentifier(RuntimeAliasKey),
			utils.Custom(RuntimeAliasKey, "cannot be the blank identifier", func(v string) bool { return v != "_" }),
		).Validate(c.RuntimeAlias),
	}

	for _, err := range checks {
		if err != nil {
			return errors.WrapConfigurationError("matchgen", "validate", err)
		}
	}
	return nil
}

// DiagnosticLevel maps the verbosity flags to an output level
func (c Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

// Marker returns the configured marker identity
func (c Config) Marker() resolver.Marker {
	return resolver.Marker{Path: c.MarkerPath, Name: c.MarkerName}
}

// PipelineOptions returns the generator options for this configuration
func (c Config) PipelineOptions() generator.Options {
	options := generator.DefaultOptions()
	options.FileName = c.Output
	if c.RuntimePath != "" {
		options.RuntimeImport = c.RuntimePath
	}
	if c.RuntimeAlias != path.Base(options.RuntimeImport) {
		options.RuntimeAlias = c.RuntimeAlias
	}
	return options
}

func isExported(name string) bool {
	return name != "" && strings.ToUpper(name[:1]) == name[:1] && name[:1] != "_"
}
