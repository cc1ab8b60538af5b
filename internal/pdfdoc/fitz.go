package pdfdoc

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzOpener opens PDFs with MuPDF via go-fitz.
type FitzOpener struct{}

func (FitzOpener) Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &fitzDocument{
		doc:     doc,
		pages:   doc.NumPage(),
		outline: fitzOutline(doc),
	}, nil
}

type fitzDocument struct {
	doc     *fitz.Document
	pages   int
	outline []OutlineEntry
}

func (d *fitzDocument) Outline() []OutlineEntry { return d.outline }

func (d *fitzDocument) PageCount() int { return d.pages }

func (d *fitzDocument) PageText(i int) string {
	if i < 0 || i >= d.pages {
		return ""
	}
	text, err := d.doc.Text(i)
	if err != nil {
		return ""
	}
	return text
}

func (d *fitzDocument) Close() error { return d.doc.Close() }

// fitzOutline flattens the MuPDF table of contents. A ToC read error is
// treated the same as a missing outline: the caller degrades to a single
// whole-document chapter.
func fitzOutline(doc *fitz.Document) []OutlineEntry {
	toc, err := doc.ToC()
	if err != nil {
		return nil
	}
	entries := make([]OutlineEntry, 0, len(toc))
	for _, o := range toc {
		if o.Page < 0 {
			// Unresolved destination.
			continue
		}
		entries = append(entries, OutlineEntry{
			Level: o.Level,
			Title: o.Title,
			Page:  o.Page + 1, // MuPDF page numbers are 0-based
		})
	}
	return entries
}
