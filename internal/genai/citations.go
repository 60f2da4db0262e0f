package genai

import (
	"fmt"
	"sort"
	"strings"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
)

// InsertCitations inserts inline citation markers into text at the end of
// each grounded segment. Markers are the concatenated "[n]" values of the
// support's reference indices. Supports are processed by descending
// end_index so earlier insertions never shift the offsets of the remaining
// ones. Supports whose end_index falls outside the text are skipped.
func InsertCitations(text string, supports []chatDomain.GroundingSupport) string {
	sorted := make([]chatDomain.GroundingSupport, len(supports))
	copy(sorted, supports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EndIndex > sorted[j].EndIndex
	})

	result := text
	for _, support := range sorted {
		if len(support.ReferenceIndices) == 0 || support.EndIndex > len(result) {
			continue
		}
		var markers strings.Builder
		for _, idx := range support.ReferenceIndices {
			fmt.Fprintf(&markers, "[%d]", idx)
		}
		result = result[:support.EndIndex] + markers.String() + result[support.EndIndex:]
	}
	return result
}
