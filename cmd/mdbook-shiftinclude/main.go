package main

import (
	"fmt"
	"os"

	"shiftinclude/book"
	"shiftinclude/cli"
	"shiftinclude/internal/fs"
	"shiftinclude/internal/lint"
	"shiftinclude/internal/source"
	"shiftinclude/internal/ui"
	"shiftinclude/preprocessor"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.SetQuiet(cfg.Quiet)

	if len(cfg.Args) > 0 && cfg.Args[0] == "supports" {
		if len(cfg.Args) < 2 {
			ui.Error("Usage: mdbook-shiftinclude supports <renderer>")
			os.Exit(1)
		}
		// Signal whether the renderer is supported by exiting with 0 or 1.
		if preprocessor.SupportsRenderer(cfg.Args[1]) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	switch {
	case cfg.Expand:
		os.Exit(runExpand(cfg))
	case cfg.Lint:
		os.Exit(runLint(cfg))
	default:
		os.Exit(runPreprocess())
	}
}

// runPreprocess speaks the mdBook cmd-preprocessor protocol: the
// [context, book] array on stdin, the processed book on stdout.
func runPreprocess() int {
	ctx, b, err := book.ParseInput(os.Stdin)
	if err != nil {
		ui.Error("Error: %v", err)
		return 1
	}

	pre := preprocessor.New(ctx)
	pre.Run(ctx, b)

	if err := b.WriteOutput(os.Stdout); err != nil {
		ui.Error("Error: %v", err)
		return 1
	}
	return 0
}

func runExpand(cfg *cli.Config) int {
	content, err := source.New().GetContent()
	if err != nil {
		ui.Error("Error: %v", err)
		return 1
	}
	if content == "" {
		return 0
	}

	resolver := fs.NewPathResolver(cfg.LookupDirs)
	fmt.Print(preprocessor.Expand(content, resolver))
	return 0
}

func runLint(cfg *cli.Config) int {
	content, err := source.New().GetContent()
	if err != nil {
		ui.Error("Error: %v", err)
		return 1
	}
	if content == "" {
		return 0
	}

	findings := lint.Check(content, fs.NewPathResolver(cfg.LookupDirs))
	if len(findings) == 0 {
		ui.Info("No problems found.")
		return 0
	}

	failed := false
	for _, f := range findings {
		if f.Advisory {
			ui.Warning("%s", f)
		} else {
			ui.Error("%s", f)
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}
