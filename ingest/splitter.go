package ingest

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/forgeqa/caseforge/core"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
)

// chunkSeparators are tried in order; the splitter prefers paragraph
// boundaries and falls back to words, then characters.
var chunkSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts segments into overlapping chunks sized for embedding.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

// NewSplitter creates a Splitter with the default chunk geometry.
func NewSplitter() *Splitter {
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(defaultChunkSize),
			textsplitter.WithChunkOverlap(defaultChunkOverlap),
			textsplitter.WithSeparators(chunkSeparators),
		),
	}
}

// Split cuts each segment into chunks. Chunk ordinals run across the
// whole document, and each chunk carries the ordinal of the segment it
// came from. IDs derive from chunk content.
func (s *Splitter) Split(segments []core.Segment) ([]*core.Chunk, error) {
	var chunks []*core.Chunk

	for _, segment := range segments {
		pieces, err := s.inner.SplitText(segment.Content)
		if err != nil {
			return nil, fmt.Errorf("splitting segment %d of %s: %w", segment.Ordinal, segment.Source, err)
		}

		for _, piece := range pieces {
			chunks = append(chunks, &core.Chunk{
				Id:      core.IDFromContent(piece),
				Source:  segment.Source,
				Segment: segment.Ordinal,
				Ordinal: len(chunks),
				Content: piece,
			})
		}
	}

	return chunks, nil
}
