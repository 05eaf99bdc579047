package directive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shiftinclude/internal/include"
	"shiftinclude/shift"
)

func TestFindNoDirective(t *testing.T) {
	inputs := []string{
		"Some random text without directive...",
		"Some random text with {{#playground...",
		"Some random text with {{#include...",
		"Some random text with \\{{#include...",
		"Some random text with {{#playground}} and {{#playground   }} {{}} {{#}}...",
		"Some random text with {{#playgroundz ar.rs}} and {{#incn}} {{baz}} {{#bar}}...",
	}
	for _, s := range inputs {
		if got := Find(s); len(got) != 0 {
			t.Errorf("Find(%q) = %v, want none", s, got)
		}
	}
}

func TestFindIncludeRanges(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		wantText string
		wantPath string
		from, to int
	}{
		{
			"start and end", "Some random text with {{#include file.rs:10:20}}...",
			"{{#include file.rs:10:20}}", "file.rs", 9, 20,
		},
		{
			"single line", "Some random text with {{#include file.rs:10}}...",
			"{{#include file.rs:10}}", "file.rs", 9, 10,
		},
		{
			"from range", "Some random text with {{#include file.rs:10:}}...",
			"{{#include file.rs:10:}}", "file.rs", 9, include.All,
		},
		{
			"to range", "Some random text with {{#include file.rs::20}}...",
			"{{#include file.rs::20}}", "file.rs", include.All, 20,
		},
		{
			"full range", "Some random text with {{#include file.rs::}}...",
			"{{#include file.rs::}}", "file.rs", include.All, include.All,
		},
		{
			"no range", "Some random text with {{#include file.rs}}...",
			"{{#include file.rs}}", "file.rs", include.All, include.All,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(tt.s)
			if len(got) != 1 {
				t.Fatalf("Find returned %d directives, want 1", len(got))
			}
			d := got[0]
			if d.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", d.Text, tt.wantText)
			}
			if d.Start != strings.Index(tt.s, tt.wantText) || d.End != d.Start+len(tt.wantText) {
				t.Errorf("offsets = [%d, %d), want match of %q", d.Start, d.End, tt.wantText)
			}
			if d.Kind != KindInclude || d.Path != tt.wantPath {
				t.Errorf("parsed path = %q (kind %v), want %q", d.Path, d.Kind, tt.wantPath)
			}
			if d.Anchor != "" || d.From != tt.from || d.To != tt.to {
				t.Errorf("window = [%d, %d) anchor %q, want [%d, %d)", d.From, d.To, d.Anchor, tt.from, tt.to)
			}
			if d.Spec != shift.Right(0) {
				t.Errorf("plain include spec = %+v, want identity", d.Spec)
			}
		})
	}
}

func TestFindIncludeAnchor(t *testing.T) {
	got := Find("Some random text with {{#include file.rs:anchor}}...")
	if len(got) != 1 {
		t.Fatalf("Find returned %d directives, want 1", len(got))
	}
	d := got[0]
	if d.Path != "file.rs" || d.Anchor != "anchor" {
		t.Errorf("parsed %q anchor %q, want file.rs/anchor", d.Path, d.Anchor)
	}
}

func TestFindEscaped(t *testing.T) {
	s := "Some random text with escaped playground \\{{#playground file.rs editable}} ..."
	got := Find(s)
	if len(got) != 1 {
		t.Fatalf("Find returned %d directives, want 1", len(got))
	}
	d := got[0]
	if d.Kind != KindEscaped {
		t.Fatalf("kind = %v, want escaped", d.Kind)
	}
	if d.Text != "\\{{#playground file.rs editable}}" {
		t.Errorf("Text = %q", d.Text)
	}
	rendered, err := d.Render("")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rendered != "{{#playground file.rs editable}}" {
		t.Errorf("Render = %q, want escape char omitted", rendered)
	}
}

func TestFindShiftinclude(t *testing.T) {
	tests := []struct {
		name       string
		s          string
		wantSpec   shift.Spec
		wantPath   string
		wantAnchor string
	}{
		{"auto", "{{#shiftinclude auto:file.rs}}", shift.Auto(), "file.rs", ""},
		{"right", "{{#shiftinclude 2:file.rs}}", shift.Right(2), "file.rs", ""},
		{"left", "{{#shiftinclude -2:file.rs}}", shift.Left(2), "file.rs", ""},
		{"auto with anchor", "{{#shiftinclude auto:file.rs:anchor}}", shift.Auto(), "file.rs", "anchor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(tt.s)
			if len(got) != 1 {
				t.Fatalf("Find returned %d directives, want 1", len(got))
			}
			d := got[0]
			if d.SpecErr != nil {
				t.Fatalf("unexpected spec error: %v", d.SpecErr)
			}
			if d.Spec != tt.wantSpec || d.Path != tt.wantPath || d.Anchor != tt.wantAnchor {
				t.Errorf("parsed spec %+v path %q anchor %q, want %+v %q %q",
					d.Spec, d.Path, d.Anchor, tt.wantSpec, tt.wantPath, tt.wantAnchor)
			}
		})
	}
}

func TestFindShiftincludeRange(t *testing.T) {
	got := Find("{{#shiftinclude -4:file.rs:10:20}}")
	if len(got) != 1 {
		t.Fatalf("Find returned %d directives, want 1", len(got))
	}
	d := got[0]
	if d.Spec != shift.Left(4) || d.Path != "file.rs" || d.From != 9 || d.To != 20 {
		t.Errorf("parsed %+v path %q window [%d, %d)", d.Spec, d.Path, d.From, d.To)
	}
}

func TestFindShiftincludeBadToken(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		token string
	}{
		{"non-numeric", "{{#shiftinclude abc:file.rs}}", "abc"},
		{"missing colon", "{{#shiftinclude file.rs}}", "file.rs"},
		{"empty token", "{{#shiftinclude :file.rs}}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(tt.s)
			if len(got) != 1 {
				t.Fatalf("Find returned %d directives, want 1", len(got))
			}
			d := got[0]
			if d.SpecErr == nil {
				t.Fatal("expected a spec error")
			}
			var invalid *shift.InvalidShiftTokenError
			if !errors.As(d.SpecErr, &invalid) {
				t.Fatalf("SpecErr = %v, want InvalidShiftTokenError", d.SpecErr)
			}
			if invalid.Token != tt.token {
				t.Errorf("error names token %q, want %q", invalid.Token, tt.token)
			}
			if _, err := d.Render(""); err == nil {
				t.Error("Render succeeded, want the spec error")
			}
		})
	}
}

func TestReplaceAllEscaped(t *testing.T) {
	start := "\nSome text over here.\n```hbs\n\\{{#include file.rs}} << an escaped link!\n```"
	end := "\nSome text over here.\n```hbs\n{{#include file.rs}} << an escaped link!\n```"
	if got := ReplaceAll(start, "", ""); got != end {
		t.Errorf("ReplaceAll = %q, want %q", got, end)
	}
}

func TestReplaceAllSubstitutes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "snippet.txt", "  Indent\n     More Indent\n  Back\n")

	content := "Before\n```text\n{{#shiftinclude auto:snippet.txt}}\n```\nAfter"
	want := "Before\n```text\nIndent\n   More Indent\nBack\n```\nAfter"
	if got := ReplaceAll(content, dir, "chapter.md"); got != want {
		t.Errorf("ReplaceAll = %q, want %q", got, want)
	}
}

func TestReplaceAllKeepsRawTextOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.txt", "fine\n")

	content := "a {{#shiftinclude nope:ok.txt}} b {{#include missing.txt}} c {{#include ok.txt}} d"
	want := "a {{#shiftinclude nope:ok.txt}} b {{#include missing.txt}} c fine d"
	if got := ReplaceAll(content, dir, "chapter.md"); got != want {
		t.Errorf("ReplaceAll = %q, want %q", got, want)
	}
}

func TestReplaceAllNested(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// outer.md lives in sub/, so its nested include resolves there too.
	writeFile(t, sub, "outer.md", "outer\n{{#include inner.md}}\n")
	writeFile(t, sub, "inner.md", "inner\n")

	got := ReplaceAll("{{#include sub/outer.md}}", dir, "chapter.md")
	want := "outer\ninner"
	if got != want {
		t.Errorf("ReplaceAll = %q, want %q", got, want)
	}
}

func TestReplaceAllCycleIsCapped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "self.md", "x {{#include self.md}}")

	got := ReplaceAll("{{#include self.md}}", dir, "chapter.md")
	// The cycle is cut after the depth cap; the document must still come
	// back instead of recursing forever.
	if !strings.HasPrefix(got, "x x x ") {
		t.Errorf("ReplaceAll = %q, want repeated expansion prefix", got)
	}
	if strings.Count(got, "x ") > maxNestedDepth+2 {
		t.Errorf("ReplaceAll expanded %d times, want capped", strings.Count(got, "x "))
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
