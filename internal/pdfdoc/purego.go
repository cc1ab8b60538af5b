package pdfdoc

import (
	"bytes"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PureOpener opens PDFs without cgo: pdfcpu reads the bookmark tree and
// page count, ledongthuc/pdf extracts the per-page text layer.
type PureOpener struct{}

func (PureOpener) Open(data []byte) (Document, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf structure: %w", err)
	}

	// The two readers can disagree on damaged files; trust the smaller
	// count so PageText never indexes past either.
	pages := ctx.PageCount
	if n := reader.NumPage(); n < pages {
		pages = n
	}

	// A bookmark read failure degrades to no outline rather than failing
	// the document.
	var outline []OutlineEntry
	if bms, err := api.Bookmarks(bytes.NewReader(data), conf); err == nil {
		outline = flattenBookmarks(bms, 1, nil)
	}

	return &pureDocument{reader: reader, pages: pages, outline: outline}, nil
}

type pureDocument struct {
	reader  *pdflib.Reader
	pages   int
	outline []OutlineEntry
}

func (d *pureDocument) Outline() []OutlineEntry { return d.outline }

func (d *pureDocument) PageCount() int { return d.pages }

func (d *pureDocument) PageText(i int) string {
	if i < 0 || i >= d.pages {
		return ""
	}
	page := d.reader.Page(i + 1) // ledongthuc pages are 1-based
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// Close is a no-op: the reader holds only the request's byte slice, there
// is no file handle underneath.
func (d *pureDocument) Close() error { return nil }

// flattenBookmarks walks the pdfcpu bookmark tree depth-first, recording
// nesting depth as the outline level.
func flattenBookmarks(bms []pdfcpu.Bookmark, level int, out []OutlineEntry) []OutlineEntry {
	for _, bm := range bms {
		out = append(out, OutlineEntry{Level: level, Title: bm.Title, Page: bm.PageFrom})
		out = flattenBookmarks(bm.Kids, level+1, out)
	}
	return out
}
