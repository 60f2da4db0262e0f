package genai

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
)

// ListModels returns the catalog of models that support content generation,
// sorted by display name. When the upstream call fails or returns nothing
// the static fallback catalog is returned so the client always has models
// to offer.
func (c *Client) ListModels(ctx context.Context) []chatDomain.Model {
	if err := c.limiter.Wait(ctx); err != nil {
		return FallbackModels()
	}

	models, err := c.fetchModels(ctx)
	if err != nil {
		c.logger.Warn("model listing failed", "error", err)
		return FallbackModels()
	}
	if len(models) == 0 {
		return FallbackModels()
	}
	return models
}

func (c *Client) fetchModels(ctx context.Context) ([]chatDomain.Model, error) {
	var models []chatDomain.Model
	pageToken := ""
	for {
		url := fmt.Sprintf("%s/models?pageSize=50", c.baseURL)
		if pageToken != "" {
			url += "&pageToken=" + pageToken
		}

		var page listModelsResponse
		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, err
		}

		for _, model := range page.Models {
			if !slices.Contains(model.SupportedGenerationMethods, "generateContent") {
				continue
			}
			models = append(models, chatDomain.Model{
				ID:          model.Name,
				Name:        displayName(model.Name),
				Description: fmt.Sprintf("Google %s model", displayName(model.Name)),
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}

var titleCaser = cases.Title(language.English)

func displayName(modelID string) string {
	name := strings.TrimPrefix(modelID, "models/")
	name = strings.ReplaceAll(name, "gemini-", "Gemini ")
	name = strings.ReplaceAll(name, "-", " ")
	return titleCaser.String(name)
}

// FallbackModels is the static catalog used when the upstream listing is
// unavailable.
func FallbackModels() []chatDomain.Model {
	return []chatDomain.Model{
		{
			ID:          "gemini-2.5-flash",
			Name:        "Gemini 2.5 Flash",
			Description: "Fast and versatile model for most tasks",
		},
		{
			ID:          "gemini-2.5-pro",
			Name:        "Gemini 2.5 Pro",
			Description: "The most powerful model for demanding tasks",
		},
		{
			ID:          "gemini-2.5-flash-lite",
			Name:        "Gemini 2.5 Flash Lite",
			Description: "Best performance for complex reasoning tasks",
		},
	}
}
