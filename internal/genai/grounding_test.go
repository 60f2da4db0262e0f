package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectURLs(t *testing.T) {
	t.Run("no urls", func(t *testing.T) {
		assert.Empty(t, DetectURLs("tell me about go"))
	})

	t.Run("single url", func(t *testing.T) {
		urls := DetectURLs("summarize https://example.com/article for me")
		assert.Equal(t, []string{"https://example.com/article"}, urls)
	})

	t.Run("multiple urls", func(t *testing.T) {
		urls := DetectURLs("compare http://a.example.com and https://b.example.com/page")
		assert.Equal(t, []string{"http://a.example.com", "https://b.example.com/page"}, urls)
	})

	t.Run("trailing punctuation excluded", func(t *testing.T) {
		urls := DetectURLs("read https://example.com/post.")
		assert.Equal(t, []string{"https://example.com/post"}, urls)
	})
}

func TestExtractGrounding(t *testing.T) {
	md := &groundingMetadata{
		WebSearchQueries: []string{"go generics"},
		GroundingChunks: []groundingChunk{
			{Web: &webSource{URI: "https://go.dev/blog/intro-generics", Title: "An Introduction To Generics"}},
			{Web: nil},
			{Web: &webSource{URI: "https://example.com/untitled"}},
		},
		GroundingSupports: []groundingAnchor{
			{
				Segment:               &segment{StartIndex: 0, EndIndex: 12, Text: "Go has generics"},
				GroundingChunkIndices: []int{0, 2},
			},
			{Segment: nil, GroundingChunkIndices: []int{0}},
		},
	}

	references, queries, supports := extractGrounding(md)

	assert.Equal(t, []string{"go generics"}, queries)

	require.Len(t, references, 2)
	assert.Equal(t, 1, references[0].ID)
	assert.Equal(t, "An Introduction To Generics", references[0].Title)
	assert.Equal(t, "go.dev", references[0].Domain)
	// chunk without a web source is skipped but keeps positional ids aligned
	assert.Equal(t, 3, references[1].ID)
	assert.Equal(t, "example.com", references[1].Title)

	require.Len(t, supports, 1)
	assert.Equal(t, 0, supports[0].StartIndex)
	assert.Equal(t, 12, supports[0].EndIndex)
	assert.Equal(t, []int{1, 3}, supports[0].ReferenceIndices)
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com", hostOf("https://example.com/a/b"))
	assert.Equal(t, "Unknown", hostOf("not a url"))
}
