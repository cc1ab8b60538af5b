package pdfdoc

// OutlineEntry is one bookmark in a document's outline, in traversal order
// (which is not necessarily page order).
type OutlineEntry struct {
	Level int    // nesting depth, 1 = top level
	Title string
	Page  int // 1-based page the bookmark points at
}

// Document is an open PDF. Callers must Close it on every exit path.
type Document interface {
	Outline() []OutlineEntry
	PageCount() int
	// PageText returns the plain text of the 0-based page index.
	// Out-of-range indices and extraction failures yield "".
	PageText(i int) string
	Close() error
}

// Opener turns raw PDF bytes into an open Document.
type Opener interface {
	Open(data []byte) (Document, error)
}

// NewOpener returns the opener used for serving. With pureGo set, the
// cgo-free path (pdfcpu + ledongthuc/pdf) is used exclusively; otherwise
// MuPDF is tried first and the pure-Go opener handles bytes MuPDF rejects.
func NewOpener(pureGo bool) Opener {
	if pureGo {
		return PureOpener{}
	}
	return fallbackOpener{primary: FitzOpener{}, fallback: PureOpener{}}
}

type fallbackOpener struct {
	primary, fallback Opener
}

func (o fallbackOpener) Open(data []byte) (Document, error) {
	doc, err := o.primary.Open(data)
	if err == nil {
		return doc, nil
	}
	fbDoc, fbErr := o.fallback.Open(data)
	if fbErr != nil {
		// The primary error names the real problem with the bytes.
		return nil, err
	}
	return fbDoc, nil
}
