package config

// This file binds CLI flags to a Config. Flags are registered against a
// scratch Config holding defaults; after parsing, only flags the user set
// explicitly are copied onto the layered Config so file and environment
// values hold unless overridden.

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags holds the parsed flag values for one command invocation.
type Flags struct {
	values     Config
	configFile string
	forceColor bool
	noColor    bool
	noProgress bool
}

// flagField copies one explicitly set flag from the parsed values to dst.
type flagField struct {
	name  string
	apply func(dst *Config, src *Config)
}

var flagFields = []flagField{
	{"output", func(d, s *Config) { d.OutputDir = NormalizeDirArg(s.OutputDir) }},
	{"quality", func(d, s *Config) { d.Quality = s.Quality }},
	{"workers", func(d, s *Config) { d.Workers = s.Workers }},
	{"ddjvu", func(d, s *Config) { d.DdjvuPath = s.DdjvuPath }},
	{"djvused", func(d, s *Config) { d.DjvusedPath = s.DjvusedPath }},
	{"temp-dir", func(d, s *Config) { d.TempDir = s.TempDir }},
	{"timeout", func(d, s *Config) { d.ToolTimeout = s.ToolTimeout }},
	{"default-pages", func(d, s *Config) { d.DefaultPageCount = s.DefaultPageCount }},
	{"dry-run", func(d, s *Config) { d.DryRun = s.DryRun }},
	{"verbose", func(d, s *Config) { d.Verbose = s.Verbose }},
	{"log", func(d, s *Config) { d.LogFile = s.LogFile }},
}

// RegisterFlags defines the conversion flags on fs. Every command that
// loads a Config registers the same set.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{values: DefaultConfig()}
	v := &f.values

	fs.StringVarP(&v.OutputDir, "output", "o", "", "output directory for .cbz files (default: input directory)")
	fs.IntVarP(&v.Quality, "quality", "q", v.Quality, fmt.Sprintf("image quality (%d-%d)", QualityMin, QualityMax))
	fs.IntVarP(&v.Workers, "workers", "w", v.Workers, "documents converted in parallel (1 = sequential)")
	fs.StringVar(&v.DdjvuPath, "ddjvu", v.DdjvuPath, "path to the ddjvu executable")
	fs.StringVar(&v.DjvusedPath, "djvused", v.DjvusedPath, "path to the djvused executable")
	fs.StringVar(&v.TempDir, "temp-dir", "", "parent directory for per-document scratch areas")
	fs.DurationVar(&v.ToolTimeout, "timeout", v.ToolTimeout, "timeout per external tool call (0 disables)")
	fs.IntVar(&v.DefaultPageCount, "default-pages", v.DefaultPageCount, "pages to attempt when the page count cannot be determined")
	fs.BoolVarP(&v.DryRun, "dry-run", "d", false, "list conversion jobs without converting")

	registerDisplayFlags(fs, f)
	fs.StringVarP(&f.configFile, "config", "c", "", "YAML config file")
	return f
}

// registerDisplayFlags defines the logging, color and progress flags.
func registerDisplayFlags(fs *pflag.FlagSet, f *Flags) {
	v := &f.values
	fs.BoolVarP(&v.Verbose, "verbose", "v", false, "verbose output")
	fs.StringVarP(&v.LogFile, "log", "l", "", "append logs to file")
	fs.BoolVar(&f.forceColor, "color", false, "force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored logs")
	fs.BoolVar(&f.noProgress, "no-progress", false, "hide the progress bar")
}

// ConfigFile returns the --config value, if any.
func (f *Flags) ConfigFile() string { return f.configFile }

// Apply copies every flag the user set on fs into cfg.
func (f *Flags) Apply(cfg *Config, fs *pflag.FlagSet) {
	for _, ff := range flagFields {
		if fl := fs.Lookup(ff.name); fl != nil && fl.Changed {
			ff.apply(cfg, &f.values)
		}
	}
	if f.noProgress {
		cfg.ShowProgress = false
	}
	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// Load builds the effective Config for a command: defaults, then the
// --config file, then the environment, then explicit flags. It validates
// the result.
func Load(fs *pflag.FlagSet, f *Flags, inputDir string) (Config, error) {
	cfg := DefaultConfig()
	if path := f.ConfigFile(); path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := LoadEnv(&cfg); err != nil {
		return Config{}, err
	}
	f.Apply(&cfg, fs)
	cfg.InputDir = NormalizeDirArg(inputDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
