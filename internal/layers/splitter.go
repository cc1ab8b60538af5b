package layers

import "github.com/tmc/langchaingo/textsplitter"

// Splitter chunks one chapter's text. Satisfied by langchaingo's splitters.
type Splitter interface {
	SplitText(text string) ([]string, error)
}

// Config controls chunk sizing. Units are the splitter's own measure
// (characters for the recursive character splitter).
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

// DefaultConfig matches the sizing downstream retrieval expects.
func DefaultConfig() Config {
	return Config{ChunkSize: 512, ChunkOverlap: 50}
}

// NewSplitter builds a recursive character splitter for a config. The
// splitter only ever sees chapter-local text, never cross-chapter text.
func NewSplitter(cfg Config) Splitter {
	if cfg.ChunkSize <= 0 {
		cfg = DefaultConfig()
	}
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)
}
