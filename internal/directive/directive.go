// Package directive finds and substitutes include directives in chapter
// text. Two directive types are recognized: {{#include path[:range]}} and
// {{#shiftinclude spec:path[:range]}}, plus the escaped form
// \{{#...}} which renders as its own text minus the backslash.
package directive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"shiftinclude/internal/include"
	"shiftinclude/internal/ui"
	"shiftinclude/shift"
)

const (
	escapeChar     = '\\'
	maxNestedDepth = 10
)

// Kind discriminates escaped verbatim text from includes.
type Kind int

const (
	KindEscaped Kind = iota
	KindInclude
)

// Directive is one recognized occurrence in a document.
type Directive struct {
	// Start and End are the byte offsets of the occurrence.
	Start int
	End   int
	// Text is the raw matched text, including braces.
	Text string

	Kind Kind
	// Path is the include target, relative to the chapter directory.
	Path string
	// Spec is the parsed shift. SpecErr is set instead when the shift
	// token was malformed; such a directive fails at render time.
	Spec    shift.Spec
	SpecErr error
	// Anchor selects an anchored region when non-empty; otherwise From
	// and To give a half-open line window (include.All for unbounded).
	Anchor   string
	From, To int
}

var directiveRE = regexp.MustCompile(
	`\\\{\{#.*\}\}|\{\{\s*#([a-zA-Z0-9_]+)\s+([^}]+)\}\}`)

// Find returns every directive occurrence in content, in order.
func Find(content string) []*Directive {
	var out []*Directive
	for _, m := range directiveRE.FindAllStringSubmatchIndex(content, -1) {
		if d := fromMatch(content, m); d != nil {
			out = append(out, d)
		}
	}
	return out
}

func fromMatch(content string, m []int) *Directive {
	d := &Directive{
		Start: m[0],
		End:   m[1],
		Text:  content[m[0]:m[1]],
	}

	if m[2] < 0 {
		if d.Text[0] != escapeChar {
			return nil
		}
		d.Kind = KindEscaped
		return d
	}

	typ := content[m[2]:m[3]]
	rest := content[m[4]:m[5]]
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil
	}
	// Trailing space-separated properties are accepted and ignored.
	arg := fields[0]

	switch typ {
	case "include":
		d.Kind = KindInclude
		d.Spec = shift.Right(0)
		d.parseIncludePath(arg)
	case "shiftinclude":
		d.Kind = KindInclude
		colon := strings.Index(arg, ":")
		if colon < 0 {
			d.SpecErr = &shift.InvalidShiftTokenError{Token: arg}
			return d
		}
		d.Spec, d.SpecErr = shift.Parse(arg[:colon])
		d.parseIncludePath(arg[colon+1:])
	default:
		return nil
	}
	return d
}

// parseIncludePath splits "path[:range-or-anchor]" and fills the window
// or anchor fields. Line numbers are 1-based in the directive and
// 0-based internally.
func (d *Directive) parseIncludePath(arg string) {
	parts := strings.SplitN(arg, ":", 2)
	d.Path = parts[0]
	rest := ""
	if len(parts) > 1 {
		rest = parts[1]
	}
	d.parseRangeOrAnchor(rest)
}

func (d *Directive) parseRangeOrAnchor(rest string) {
	d.From, d.To = include.All, include.All

	parts := strings.SplitN(rest, ":", 3)
	first := parts[0]

	start := include.All
	if n, err := strconv.Atoi(first); err == nil && n >= 0 {
		// Line numbers usually begin with 1.
		if n > 0 {
			start = n - 1
		} else {
			start = 0
		}
	} else if first != "" {
		d.Anchor = first
		return
	}

	// If the end is empty or unparsable, treat this as a range with only
	// a start bound. If it isn't given at all, include the single line
	// named by start.
	hasEnd := len(parts) > 1
	end := include.All
	if hasEnd {
		if n, err := strconv.Atoi(parts[1]); err == nil && n >= 0 {
			end = n
		}
	}

	switch {
	case start != include.All && end != include.All:
		d.From, d.To = start, end
	case start != include.All && hasEnd:
		d.From = start
	case start != include.All:
		d.From, d.To = start, start+1
	case end != include.All:
		d.To = end
	}
}

// Render produces the directive's replacement text. Include targets are
// read relative to base.
func (d *Directive) Render(base string) (string, error) {
	switch d.Kind {
	case KindEscaped:
		// Omit the escape char.
		return d.Text[1:], nil
	default:
		if d.SpecErr != nil {
			return "", d.SpecErr
		}
		target := filepath.Join(base, d.Path)
		data, err := os.ReadFile(target)
		if err != nil {
			return "", fmt.Errorf("could not read file for directive %s (%s): %w", d.Text, target, err)
		}
		s := string(data)
		if d.Anchor != "" {
			return include.TakeAnchoredLines(s, d.Anchor, d.Spec), nil
		}
		return include.TakeLines(s, d.From, d.To, d.Spec), nil
	}
}

// relativeBase returns the directory nested includes inside this
// directive's content resolve against.
func (d *Directive) relativeBase(base string) (string, bool) {
	if d.Kind != KindInclude {
		return "", false
	}
	return filepath.Dir(filepath.Join(base, d.Path)), true
}

// ReplaceAll substitutes every directive in content and returns the
// result. Includes resolve relative to base; nested includes resolve
// relative to the directory of the file they came from, up to a fixed
// depth. A directive that fails to render is left in place as raw text
// and reported on stderr; the rest of the document still processes.
// source names the document in diagnostics.
func ReplaceAll(content, base, source string) string {
	return replaceAll(content, base, source, 0)
}

func replaceAll(content, base, source string, depth int) string {
	var b strings.Builder
	previousEnd := 0

	for _, d := range Find(content) {
		b.WriteString(content[previousEnd:d.Start])

		rendered, err := d.Render(base)
		if err != nil {
			ui.Error("Error updating %q: %v", d.Text, err)
			// Keep the raw {{# ... }} snippet in the page content.
			previousEnd = d.Start
			continue
		}

		if depth < maxNestedDepth {
			if rel, ok := d.relativeBase(base); ok {
				b.WriteString(replaceAll(rendered, rel, source, depth+1))
			} else {
				b.WriteString(rendered)
			}
		} else {
			ui.Error("Stack depth exceeded in %s. Check for cyclic includes", source)
		}
		previousEnd = d.End
	}

	b.WriteString(content[previousEnd:])
	return b.String()
}
