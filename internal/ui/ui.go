// Package ui prints styled diagnostics to stderr. Stdout is reserved for
// the preprocessor's JSON output and expanded documents, so nothing in
// this package may write there.
package ui

import (
	"os"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

var quiet bool

// SetQuiet suppresses Header, Info and Warning output. Errors always print.
func SetQuiet(q bool) {
	quiet = q
}

func Header(format string, a ...interface{}) {
	if quiet {
		return
	}
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	if quiet {
		return
	}
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	if quiet {
		return
	}
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	if quiet {
		return
	}
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}
