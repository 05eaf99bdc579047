// Package cli defines the command-line surface. The default invocation
// speaks the mdBook cmd-preprocessor protocol on stdin/stdout; flags
// select the standalone expand and lint modes instead.
package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	Expand     bool
	Lint       bool
	Quiet      bool
	LookupDirs []string
	// Args are the positional arguments, e.g. ["supports", "html"].
	Args []string
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.BoolVarP(&cfg.Expand, "expand", "x", false, "Expand directives in a markdown document from stdin (or clipboard) and print the result.")
	pflag.BoolVar(&cfg.Lint, "lint", false, "Check every directive in a markdown document from stdin (or clipboard) without substituting.")
	pflag.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Suppress non-error diagnostics on stderr.")
	pflag.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directory to resolve include targets against in expand and lint modes (default: current directory).")

	pflag.Usage = func() {
		fmt.Println("Usage: mdbook-shiftinclude [flags]")
		fmt.Println("       mdbook-shiftinclude supports <renderer>")
		fmt.Println("\nAn mdbook preprocessor which includes files with shift.")
		fmt.Println("\nExample: cat chapter.md | mdbook-shiftinclude --expand -l src")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	// Validate mutually exclusive flags
	if cfg.Expand && cfg.Lint {
		return nil, fmt.Errorf("error: --expand and --lint are mutually exclusive")
	}

	cfg.Args = pflag.Args()
	return cfg, nil
}
