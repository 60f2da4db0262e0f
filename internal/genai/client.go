// Package genai implements the client for the generative language REST API
// used to produce chat responses, conversation titles and the model catalog.
package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

// Config holds the settings for the generation client.
type Config struct {
	APIKey         string
	BaseURL        string
	DefaultModel   string
	RequestTimeout time.Duration
	RequestsPerSec float64
	Burst          int
}

// Client calls the generation API over HTTP. All outbound calls share a
// token-bucket throttle so a burst of chat traffic cannot exhaust the
// upstream quota.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	defaultModel string
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		defaultModel: cfg.DefaultModel,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		logger:       logger,
	}
}

// GenerateStream generates a response incrementally and calls emit for each
// text fragment as it arrives. It returns the complete response text on
// success. Returning an error from emit aborts the stream.
func (c *Client) GenerateStream(ctx context.Context, model string, history []chatDomain.Message, message string, emit func(chunk string) error) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := generateRequest{Contents: buildContents(history, message)}
	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, resolveModel(model, c.defaultModel))

	resp, err := c.post(ctx, url, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp)
	}

	var complete strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var chunk generateResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", apperrors.Wrapf(err, "decode stream event")
		}
		text := responseText(chunk)
		if text == "" {
			continue
		}
		complete.WriteString(text)
		if err := emit(text); err != nil {
			return "", err
		}
	}
	if err := scanner.Err(); err != nil {
		return "", apperrors.Wrapf(err, "read stream")
	}
	return complete.String(), nil
}

// GenerateGrounded generates a complete response in a single call, with the
// search grounding tool when enableSearch is set and the url context tool
// when the message contains URLs. Inline citation markers are inserted into
// the returned text when grounding metadata is available.
func (c *Client) GenerateGrounded(ctx context.Context, model string, history []chatDomain.Message, message string, enableSearch bool) (chatDomain.GenerationResult, error) {
	var result chatDomain.GenerationResult

	if err := c.limiter.Wait(ctx); err != nil {
		return result, err
	}

	var tools []tool
	if enableSearch {
		tools = append(tools, tool{GoogleSearch: &emptyTool{}})
	}
	detectedURLs := DetectURLs(message)
	if len(detectedURLs) > 0 {
		tools = append(tools, tool{URLContext: &emptyTool{}})
		c.logger.Info("url context enabled", "urls", detectedURLs)
	}

	reqBody := generateRequest{Contents: buildContents(history, message), Tools: tools}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, resolveModel(model, c.defaultModel))

	var genResp generateResponse
	if err := c.postJSON(ctx, url, reqBody, &genResp); err != nil {
		return result, err
	}

	result.Text = responseText(genResp)
	result.URLContextURLs = detectedURLs

	if enableSearch && len(genResp.Candidates) > 0 && genResp.Candidates[0].GroundingMetadata != nil {
		result.Grounded = true
		result.References, result.SearchQueries, result.GroundingSupports = extractGrounding(genResp.Candidates[0].GroundingMetadata)
	}
	if len(detectedURLs) > 0 {
		result.Grounded = true
	}

	if result.Grounded && len(result.GroundingSupports) > 0 && len(result.References) > 0 {
		result.Text = InsertCitations(result.Text, result.GroundingSupports)
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrapf(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrapf(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrUpstream, "generation api request: %v", err)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	resp, err := c.post(ctx, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, "decode response")
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.Wrapf(err, "create request")
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrUpstream, "generation api request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, "decode response")
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apperrors.Wrapf(apperrors.ErrUpstream, "generation api status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return apperrors.Wrapf(apperrors.ErrUpstream, "generation api status %d", resp.StatusCode)
}

func resolveModel(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return strings.TrimPrefix(model, "models/")
}

func buildContents(history []chatDomain.Message, message string) []content {
	contents := make([]content, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == chatDomain.AIRole {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: msg.Content}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})
	return contents
}

func responseText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
