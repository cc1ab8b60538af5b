package ingest

import (
	"fmt"
	"log/slog"

	"github.com/pdflayers/pdflayers/internal/chapters"
	"github.com/pdflayers/pdflayers/internal/layers"
	"github.com/pdflayers/pdflayers/internal/pdfdoc"
)

// Processor runs the full pipeline for one document: open, map chapters,
// build layers. It holds no per-request state; concurrent calls each hold
// their own document handle.
type Processor struct {
	opener  pdfdoc.Opener
	builder *layers.Builder
	heading chapters.HeadingFunc
	log     *slog.Logger
}

func NewProcessor(opener pdfdoc.Opener, builder *layers.Builder, log *slog.Logger) *Processor {
	return &Processor{opener: opener, builder: builder, log: log}
}

// WithHeading overrides the predicate deciding which outline entries start
// a chapter. Nil restores the default Chapter/Appendix rule.
func (p *Processor) WithHeading(fn chapters.HeadingFunc) *Processor {
	p.heading = fn
	return p
}

// Process turns raw PDF bytes into the three retrieval layers. Any open,
// extraction, or splitting failure aborts the whole request and releases
// the document handle; a missing or unusable outline does not fail — the
// document degrades to a single whole-document chapter.
func (p *Processor) Process(data []byte) (*layers.Layers, error) {
	doc, err := p.opener.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	chs, fallback := chapters.Map(doc.Outline(), doc.PageCount(), p.heading)
	if fallback != chapters.FallbackNone {
		p.log.Warn("no usable outline, indexing whole document as one chapter",
			"reason", string(fallback),
			"pages", doc.PageCount(),
		)
	}

	out, err := p.builder.Build(chs, doc.PageText, doc.PageCount())
	if err != nil {
		return nil, fmt.Errorf("build layers: %w", err)
	}

	p.log.Info("processed document",
		"pages", doc.PageCount(),
		"chapters", len(chs),
		"chunks", len(out.Chunks),
	)
	return out, nil
}
