package main

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/amoghmargoor/aswa/internal/logging"
	"github.com/amoghmargoor/aswa/parser"
)

// Output modes
const (
	modeExplain = "explain"
	modeFormat  = "format"
	modeTokens  = "tokens"
)

type Config struct {
	Mode      string
	MaxDepth  int
	LogLevel  logging.Level
	LogFormat string
	Color     bool
	Check     bool
	Diff      bool
	Jobs      int
	History   string
	Files     []string
}

// parseConfig reads flags from args, falling back to environment variables
// looked up with getenv.
func parseConfig(args []string, getenv func(string) string, stderr io.Writer) (*Config, error) {
	env := envLookup(getenv)
	cfg := &Config{}
	var level string

	fs := flag.NewFlagSet("sqlparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sqlparse [flags] [file.sql ...]\n\n")
		fmt.Fprintf(stderr, "Parses SQL from the given files, or from standard input when no files are given.\n\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Mode, "mode", env.str("ASWA_MODE", modeFormat), "output: explain, format or tokens")
	fs.IntVar(&cfg.MaxDepth, "max-depth", env.number("ASWA_MAX_DEPTH", parser.DefaultMaxDepth), "maximum nesting depth")
	fs.StringVar(&level, "log-level", env.str("ASWA_LOG_LEVEL", "warn"), "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", env.str("ASWA_LOG_FORMAT", "text"), "log format: text or json")
	fs.BoolVar(&cfg.Color, "color", env.boolean("ASWA_COLOR", true), "highlight output and errors on a terminal")
	fs.BoolVar(&cfg.Check, "check", false, "verify that every statement survives a format and reparse round trip")
	fs.BoolVar(&cfg.Diff, "diff", false, "log statements whose canonical text differs from the input")
	fs.IntVar(&cfg.Jobs, "j", env.number("ASWA_JOBS", runtime.GOMAXPROCS(0)), "number of files parsed in parallel")
	fs.StringVar(&cfg.History, "history", env.str("ASWA_HISTORY", ""), "history file for interactive mode")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Files = fs.Args()

	switch cfg.Mode {
	case modeExplain, modeFormat, modeTokens:
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if cfg.MaxDepth < 1 {
		return nil, fmt.Errorf("max-depth must be positive, got %d", cfg.MaxDepth)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	var err error
	if cfg.LogLevel, err = logging.ParseLevel(level); err != nil {
		return nil, err
	}
	return cfg, nil
}

type envLookup func(string) string

func (env envLookup) str(key, fallback string) string {
	if v := env(key); v != "" {
		return v
	}
	return fallback
}

func (env envLookup) boolean(key string, fallback bool) bool {
	if v := env(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func (env envLookup) number(key string, fallback int) int {
	if v := env(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
