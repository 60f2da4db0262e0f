package genai

import (
	"context"
	"fmt"
	"strings"
)

const maxTitleLength = 50

// GenerateTitle produces a short title for a conversation from its first
// message. The default model is always used. When the upstream call fails
// the title falls back to the first words of the message.
func (c *Client) GenerateTitle(ctx context.Context, firstMessage string) string {
	snippet := firstMessage
	if runes := []rune(snippet); len(runes) > 200 {
		snippet = string(runes[:200])
	}
	prompt := fmt.Sprintf("Generate a short, descriptive title (max 50 characters) for a conversation that starts with: '%s'", snippet)

	if err := c.limiter.Wait(ctx); err != nil {
		return FallbackTitle(firstMessage)
	}

	reqBody := generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.defaultModel)

	var genResp generateResponse
	if err := c.postJSON(ctx, url, reqBody, &genResp); err != nil {
		c.logger.Warn("title generation failed", "error", err)
		return FallbackTitle(firstMessage)
	}

	title := strings.Trim(strings.TrimSpace(responseText(genResp)), `"'`)
	if title == "" {
		return FallbackTitle(firstMessage)
	}
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	return title
}

// FallbackTitle builds a title from the first five words of the message.
func FallbackTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > 5 {
		words = words[:5]
	}
	title := strings.Join(words, " ")
	if len(words) >= 5 {
		title += "..."
	}
	return title
}
