package genai

import (
	"net/url"
	"regexp"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
)

var urlPattern = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+[^\\s<>\"{}|\\\\^`\\[\\].,;:!?)]")

// DetectURLs returns the URLs found in the message, trailing punctuation
// excluded.
func DetectURLs(message string) []string {
	return urlPattern.FindAllString(message, -1)
}

// extractGrounding maps the grounding metadata of a response into domain
// references and supports. Reference ids are 1-based chunk positions so the
// reference_indices of each support stay aligned even when chunks without a
// web source are skipped.
func extractGrounding(md *groundingMetadata) ([]chatDomain.Reference, []string, []chatDomain.GroundingSupport) {
	references := make([]chatDomain.Reference, 0, len(md.GroundingChunks))
	for i, chunk := range md.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		domain := hostOf(chunk.Web.URI)
		title := chunk.Web.Title
		if title == "" {
			title = domain
		}
		if title == "" {
			title = "Reference"
		}
		references = append(references, chatDomain.Reference{
			ID:     i + 1,
			Title:  title,
			URL:    chunk.Web.URI,
			Domain: domain,
		})
	}

	supports := make([]chatDomain.GroundingSupport, 0, len(md.GroundingSupports))
	for _, anchor := range md.GroundingSupports {
		if anchor.Segment == nil {
			continue
		}
		indices := make([]int, 0, len(anchor.GroundingChunkIndices))
		for _, idx := range anchor.GroundingChunkIndices {
			indices = append(indices, idx+1)
		}
		supports = append(supports, chatDomain.GroundingSupport{
			StartIndex:       anchor.Segment.StartIndex,
			EndIndex:         anchor.Segment.EndIndex,
			Text:             anchor.Segment.Text,
			ReferenceIndices: indices,
		})
	}

	return references, md.WebSearchQueries, supports
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "Unknown"
	}
	return parsed.Host
}
