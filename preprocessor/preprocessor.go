// Package preprocessor wires directive substitution into the mdBook
// cmd-preprocessor protocol and the standalone expand mode.
package preprocessor

import (
	"path/filepath"

	"shiftinclude/book"
	"shiftinclude/internal/directive"
	"shiftinclude/internal/fs"
	"shiftinclude/internal/ui"
)

const (
	// Name is the preprocessor name as referenced from book.toml.
	Name = "shiftinclude"
	// mdbookVersion is the mdbook release this preprocessor tracks.
	mdbookVersion = "0.4.40"
)

// Preprocessor expands include directives in every chapter of a book.
type Preprocessor struct{}

// New creates a Preprocessor, warning when the calling mdbook version
// differs from the one this tool was written against.
func New(ctx *book.Context) *Preprocessor {
	if ctx.MdbookVersion != mdbookVersion {
		ui.Warning("The %s plugin was built against version %s of mdbook, but is being called from version %s",
			Name, mdbookVersion, ctx.MdbookVersion)
	}
	return &Preprocessor{}
}

// SupportsRenderer reports whether a renderer is supported. This
// preprocessor emits markdown, so almost any renderer works.
func SupportsRenderer(renderer string) bool {
	return renderer != "not-supported"
}

// Run substitutes directives in every chapter, resolving include targets
// relative to each chapter's directory under the book source root.
func (p *Preprocessor) Run(ctx *book.Context, b *book.Book) {
	srcDir := filepath.Join(ctx.Root, ctx.Config.Book.Src)

	b.ForEachChapter(func(ch *book.Chapter) {
		if ch.Path == nil {
			// Draft chapters have no file and no base directory.
			return
		}
		base := filepath.Join(srcDir, filepath.Dir(*ch.Path))
		ch.Content = directive.ReplaceAll(ch.Content, base, *ch.Path)
	})
}

// Expand substitutes directives in a standalone document, resolving
// include targets against the resolver's base directory.
func Expand(content string, resolver *fs.PathResolver) string {
	return directive.ReplaceAll(content, resolver.BaseDir(), "<stdin>")
}
