package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeqa/caseforge/core"
)

func TestSplitShortSegment(t *testing.T) {
	splitter := NewSplitter()

	chunks, err := splitter.Split([]core.Segment{
		{Source: "spec.txt", Ordinal: 0, Content: "The system shall support login."},
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "spec.txt", chunks[0].Source)
	assert.Equal(t, 0, chunks[0].Segment)
	assert.Equal(t, 0, chunks[0].Ordinal)
	assert.NotZero(t, chunks[0].Id)
}

func TestSplitLongSegment(t *testing.T) {
	splitter := NewSplitter()

	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("The system shall validate every input field before submission.\n\n")
	}

	chunks, err := splitter.Split([]core.Segment{
		{Source: "spec.txt", Ordinal: 0, Content: sb.String()},
	})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1, "long text should produce multiple chunks")

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Ordinal, "ordinals should run across the document")
		assert.LessOrEqual(t, len(chunk.Content), 1100, "chunks should respect the size bound")
	}
}

func TestSplitPreservesSegmentBackReference(t *testing.T) {
	splitter := NewSplitter()

	chunks, err := splitter.Split([]core.Segment{
		{Source: "spec.pdf", Ordinal: 0, Content: "Page one requirements."},
		{Source: "spec.pdf", Ordinal: 1, Content: "Page two requirements."},
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Segment)
	assert.Equal(t, 1, chunks[1].Segment)
	assert.Equal(t, 1, chunks[1].Ordinal)
}

func TestSplitDeterministicIDs(t *testing.T) {
	splitter := NewSplitter()
	segments := []core.Segment{{Source: "spec.txt", Ordinal: 0, Content: "Identical content."}}

	first, err := splitter.Split(segments)
	require.NoError(t, err)
	second, err := splitter.Split(segments)
	require.NoError(t, err)

	assert.Equal(t, first[0].Id, second[0].Id, "same content should map to the same ID")
}

func TestSplitEmptyInput(t *testing.T) {
	splitter := NewSplitter()

	chunks, err := splitter.Split(nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
