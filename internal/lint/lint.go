// Package lint dry-runs every include directive in a document without
// substituting, reporting directives that would fail or look suspicious.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"shiftinclude/internal/directive"
	"shiftinclude/internal/fs"
	"shiftinclude/internal/include"
	"shiftinclude/shift"
)

// Finding is one problem found in a document.
type Finding struct {
	// Line is the 1-based line the directive starts on.
	Line int
	// Directive is the raw directive text.
	Directive string
	Message   string
	// Advisory findings do not fail the lint run.
	Advisory bool
}

func (f Finding) String() string {
	severity := "error"
	if f.Advisory {
		severity = "warning"
	}
	return fmt.Sprintf("line %d: %s: %s (%s)", f.Line, severity, f.Message, f.Directive)
}

// fence is a fenced code block region of the document.
type fence struct {
	start, stop int
	lang        string
}

// Check resolves every directive in content against the resolver's lookup
// directories and returns the findings, in document order.
func Check(content string, resolver *fs.PathResolver) []Finding {
	var findings []Finding
	fences := findFences([]byte(content))

	for _, d := range directive.Find(content) {
		if d.Kind == directive.KindEscaped {
			continue
		}
		line := 1 + strings.Count(content[:d.Start], "\n")
		add := func(msg string, advisory bool) {
			findings = append(findings, Finding{
				Line:      line,
				Directive: d.Text,
				Message:   msg,
				Advisory:  advisory,
			})
		}

		if d.SpecErr != nil {
			add(d.SpecErr.Error(), false)
			continue
		}

		target := resolver.ResolveExisting(d.Path)
		if target == "" {
			add(fmt.Sprintf("file %q not found in any lookup directory", d.Path), false)
			continue
		}

		data, err := os.ReadFile(target)
		if err != nil {
			add(fmt.Sprintf("cannot read %q: %v", target, err), false)
			continue
		}
		s := string(data)

		if d.Anchor != "" && !include.HasAnchor(s, d.Anchor) {
			add(fmt.Sprintf("anchor %q not found in %q", d.Anchor, d.Path), false)
			continue
		}

		if d.Spec.Kind == shift.KindLeft && eatsNonWhitespace(s, d) {
			add(fmt.Sprintf("left shift of %d removes non-whitespace characters", d.Spec.N), true)
		}

		if lang := fenceLangAt(fences, d.Start); lang != "" {
			if mismatch(lang, filepath.Ext(d.Path)) {
				add(fmt.Sprintf("included %q inside a %q code block", d.Path, lang), true)
			}
		}
	}
	return findings
}

// eatsNonWhitespace reports whether the directive's fixed left shift
// would delete a non-whitespace character from its extracted block.
func eatsNonWhitespace(s string, d *directive.Directive) bool {
	var block string
	if d.Anchor != "" {
		block = include.TakeAnchoredLines(s, d.Anchor, shift.Right(0))
	} else {
		block = include.TakeLines(s, d.From, d.To, shift.Right(0))
	}
	if block == "" {
		return false
	}
	for _, line := range strings.Split(block, "\n") {
		runes := []rune(line)
		if len(runes) > d.Spec.N {
			runes = runes[:d.Spec.N]
		}
		if strings.ContainsFunc(string(runes), func(r rune) bool {
			return r != ' ' && r != '\t'
		}) {
			return true
		}
	}
	return false
}

// findFences walks the markdown AST and records every fenced code block
// region with its info-string language.
func findFences(source []byte) []fence {
	var fences []fence
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := fcb.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		f := fence{
			start: lines.At(0).Start,
			stop:  lines.At(lines.Len() - 1).Stop,
		}
		if fcb.Info != nil {
			info := string(fcb.Info.Text(source))
			fields := strings.FieldsFunc(info, func(r rune) bool {
				return r == ',' || r == ' '
			})
			if len(fields) > 0 {
				f.lang = fields[0]
			}
		}
		fences = append(fences, f)
		return ast.WalkSkipChildren, nil
	})
	return fences
}

func fenceLangAt(fences []fence, offset int) string {
	for _, f := range fences {
		if offset >= f.start && offset < f.stop {
			return f.lang
		}
	}
	return ""
}

// canonicalLang maps fence info strings and file extensions onto one
// comparable name. Unknown names map to themselves.
var canonicalLang = map[string]string{
	"rs":     "rust",
	"py":     "python",
	"rb":     "ruby",
	"js":     "javascript",
	"ts":     "typescript",
	"yml":    "yaml",
	"md":     "markdown",
	"sh":     "bash",
	"shell":  "bash",
	"golang": "go",
	"text":   "txt",
	"plain":  "txt",
}

func canonical(name string) string {
	name = strings.ToLower(name)
	if c, ok := canonicalLang[name]; ok {
		return c
	}
	return name
}

// mismatch reports whether the fence language and the included file's
// extension disagree. Either side being empty is not a mismatch.
func mismatch(lang, ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	if lang == "" || ext == "" {
		return false
	}
	return canonical(lang) != canonical(ext)
}
