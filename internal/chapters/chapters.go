package chapters

import (
	"strconv"
	"strings"

	"github.com/pdflayers/pdflayers/internal/pdfdoc"
)

// Chapter is a contiguous page range derived from the document outline.
type Chapter struct {
	Number    string // sequential from "1", independent of numbering in the title
	Title     string
	StartPage int // 1-based, inclusive
	EndPage   int // 1-based, inclusive
}

// Fallback reports why the mapper degraded to a single whole-document chapter.
type Fallback string

const (
	FallbackNone       Fallback = ""
	FallbackNoOutline  Fallback = "no_outline"
	FallbackNoChapters Fallback = "no_chapter_headings"
)

// HeadingFunc decides whether an outline entry marks the start of a chapter.
type HeadingFunc func(level int, title string) bool

// DefaultHeading accepts top-level bookmarks titled like "Chapter ..." or
// "Appendix ...". Front matter such as "Copyright" often sits at level 1
// too; the prefix rule keeps it out of the chapter map.
func DefaultHeading(level int, title string) bool {
	t := strings.TrimSpace(title)
	return level == 1 && (strings.HasPrefix(t, "Chapter") || strings.HasPrefix(t, "Appendix"))
}

// Map derives the chapter map from a document outline. It never fails and
// always returns at least one chapter: with an empty outline, or none of
// its entries accepted by isHeading (nil means DefaultHeading), the whole
// document becomes a single chapter and the Fallback value says why.
//
// Chapters keep outline order and are renumbered sequentially. Each chapter
// ends one page before the next qualifying entry starts; the last one ends
// at totalPages. Page ranges are not validated against page order: a
// non-monotonic outline can produce an end page below the start page, which
// the segmenter treats as an empty range.
func Map(outline []pdfdoc.OutlineEntry, totalPages int, isHeading HeadingFunc) ([]Chapter, Fallback) {
	if isHeading == nil {
		isHeading = DefaultHeading
	}
	if len(outline) == 0 {
		return []Chapter{wholeDocument(totalPages)}, FallbackNoOutline
	}

	var qualifying []int
	for i, e := range outline {
		if isHeading(e.Level, e.Title) {
			qualifying = append(qualifying, i)
		}
	}
	if len(qualifying) == 0 {
		return []Chapter{wholeDocument(totalPages)}, FallbackNoChapters
	}

	chs := make([]Chapter, 0, len(qualifying))
	for i, idx := range qualifying {
		entry := outline[idx]
		endPage := totalPages
		if i < len(qualifying)-1 {
			endPage = outline[qualifying[i+1]].Page - 1
		}
		chs = append(chs, Chapter{
			Number:    strconv.Itoa(i + 1),
			Title:     strings.TrimSpace(entry.Title),
			StartPage: entry.Page,
			EndPage:   endPage,
		})
	}
	return chs, FallbackNone
}

func wholeDocument(totalPages int) Chapter {
	return Chapter{Number: "1", Title: "Full Document", StartPage: 1, EndPage: totalPages}
}
