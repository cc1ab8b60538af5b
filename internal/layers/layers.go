package layers

import (
	"fmt"
	"strings"

	"github.com/pdflayers/pdflayers/internal/chapters"
)

// Doc is one retrieval document in an output layer.
type Doc struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Metadata tags a Doc for downstream indexing.
type Metadata struct {
	DocType      string `json:"doc_type"`
	Chapter      string `json:"chapter,omitempty"`
	ChapterTitle string `json:"chapter_title,omitempty"`
}

// Layers is the full layered representation of one document: a single
// whole-document ToC blob, one ToC entry per chapter, and the chapter
// tagged text chunks.
type Layers struct {
	FullToc    Doc   `json:"layer1_full_toc_doc"`
	TocEntries []Doc `json:"layer1_entry_docs"`
	Chunks     []Doc `json:"layer3_chunks"`
}

// Builder assembles the three output layers for a chapter map.
type Builder struct {
	split Splitter
}

func NewBuilder(split Splitter) *Builder {
	return &Builder{split: split}
}

// Build produces the layered representation. pageText returns the plain
// text of a 0-based page index and must return "" rather than fail for
// out-of-range pages. Build fails only when the splitter does, and then
// returns no partial layers.
func (b *Builder) Build(chs []chapters.Chapter, pageText func(int) string, totalPages int) (*Layers, error) {
	lines := make([]string, 0, len(chs))
	entries := make([]Doc, 0, len(chs))
	for _, c := range chs {
		lines = append(lines, fmt.Sprintf("Chapter %s: %s (Page %d)", c.Number, c.Title, c.StartPage))
		entries = append(entries, Doc{
			Content:  fmt.Sprintf("Chapter %s: %s (Starts on Page %d)", c.Number, c.Title, c.StartPage),
			Metadata: Metadata{DocType: "toc_entry", Chapter: c.Number},
		})
	}

	chunks := []Doc{}
	for _, c := range chs {
		text := chapterText(c, pageText, totalPages)
		if text == "" {
			continue
		}
		parts, err := b.split.SplitText(text)
		if err != nil {
			return nil, fmt.Errorf("split chapter %s: %w", c.Number, err)
		}
		for _, part := range parts {
			chunks = append(chunks, Doc{
				// Some PDFs carry raw NULs in their text layer, which
				// break downstream consumers.
				Content:  strings.ReplaceAll(part, "\x00", ""),
				Metadata: Metadata{DocType: "chunk", Chapter: c.Number, ChapterTitle: c.Title},
			})
		}
	}

	return &Layers{
		FullToc:    Doc{Content: strings.Join(lines, "\n"), Metadata: Metadata{DocType: "toc_full"}},
		TocEntries: entries,
		Chunks:     chunks,
	}, nil
}

// chapterText concatenates a chapter's page range in page order. The clamp
// absorbs malformed ranges from non-monotonic outlines: a reversed range
// reads as empty instead of indexing out of bounds.
func chapterText(c chapters.Chapter, pageText func(int) string, totalPages int) string {
	start := max(0, c.StartPage-1)
	end := min(totalPages, c.EndPage)
	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(pageText(i))
	}
	return sb.String()
}
