// Package book models the mdBook cmd-preprocessor exchange: a JSON array
// of [context, book] arrives on stdin and the modified book goes back out
// on stdout. Only the fields this preprocessor touches are typed; every
// other item shape round-trips untouched.
package book

import (
	"encoding/json"
	"fmt"
	"io"
)

// Context is the preprocessor context mdBook sends alongside the book.
type Context struct {
	Root          string `json:"root"`
	Config        Config `json:"config"`
	Renderer      string `json:"renderer"`
	MdbookVersion string `json:"mdbook_version"`
}

// Config is the book configuration subset the preprocessor reads.
type Config struct {
	Book SectionConfig `json:"book"`
}

// SectionConfig locates the book sources.
type SectionConfig struct {
	Src string `json:"src"`
}

// Book is the tree of items to process.
type Book struct {
	Sections []Item `json:"sections"`
	// mdBook serializes this marker field; it carries no data.
	NonExhaustive *struct{} `json:"__non_exhaustive"`
}

// Item is one entry of the book tree. Chapter is set for chapter items;
// anything else (separators, part titles) is kept as raw JSON and
// re-emitted unchanged.
type Item struct {
	Chapter *Chapter
	raw     json.RawMessage
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var probe struct {
		Chapter *Chapter `json:"Chapter"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Chapter != nil {
		it.Chapter = probe.Chapter
		return nil
	}
	it.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	if it.Chapter != nil {
		return json.Marshal(struct {
			Chapter *Chapter `json:"Chapter"`
		}{it.Chapter})
	}
	if it.raw == nil {
		return []byte("null"), nil
	}
	return it.raw, nil
}

// Chapter is a book chapter with its markdown content.
type Chapter struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Number      []int    `json:"number"`
	SubItems    []Item   `json:"sub_items"`
	Path        *string  `json:"path"`
	SourcePath  *string  `json:"source_path"`
	ParentNames []string `json:"parent_names"`
}

type chapterAlias Chapter

func (ch *Chapter) UnmarshalJSON(data []byte) error {
	var alias chapterAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*ch = Chapter(alias)
	// mdBook deserializes these as sequences; null would be rejected on
	// the way back in.
	if ch.SubItems == nil {
		ch.SubItems = []Item{}
	}
	if ch.ParentNames == nil {
		ch.ParentNames = []string{}
	}
	return nil
}

// ParseInput decodes the [context, book] array mdBook writes to the
// preprocessor's stdin.
func ParseInput(r io.Reader) (*Context, *Book, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("malformed preprocessor input: %w", err)
	}
	if len(raw) != 2 {
		return nil, nil, fmt.Errorf("malformed preprocessor input: expected [context, book], got %d elements", len(raw))
	}

	ctx := &Context{}
	if err := json.Unmarshal(raw[0], ctx); err != nil {
		return nil, nil, fmt.Errorf("malformed preprocessor context: %w", err)
	}
	b := &Book{}
	if err := json.Unmarshal(raw[1], b); err != nil {
		return nil, nil, fmt.Errorf("malformed book: %w", err)
	}
	return ctx, b, nil
}

// WriteOutput encodes the processed book to w without escaping the
// markdown content for HTML.
func (b *Book) WriteOutput(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to serialize book: %w", err)
	}
	return nil
}

// ForEachChapter visits every chapter in depth-first order, including
// nested sub-items, so content edits happen in place.
func (b *Book) ForEachChapter(f func(ch *Chapter)) {
	walkItems(b.Sections, f)
}

func walkItems(items []Item, f func(ch *Chapter)) {
	for i := range items {
		if ch := items[i].Chapter; ch != nil {
			f(ch)
			walkItems(ch.SubItems, f)
		}
	}
}
