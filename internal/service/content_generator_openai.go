package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIChatEndpoint = "https://api.openai.com/v1/chat/completions"

const websiteSystemPrompt = `You write copy for small-business websites. ` +
	`Respond with a single JSON object: {"businessName": string, "tagline": string, ` +
	`"sections": {"<type>": {"title": string, "subtitle": string, "description": string}}}. ` +
	`Section types are chosen from: header, hero, about, services, portfolio, gallery, ` +
	`blog, testimonials, contact, footer.`

const sectionSystemPrompt = `You write one website section. Respond with a single JSON ` +
	`object: {"title": string, "html": string}. The html is a self-contained fragment ` +
	`using only semantic tags.`

// OpenAIContentOptions controls how website copy is generated via the OpenAI
// chat completions API.
type OpenAIContentOptions struct {
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

type OpenAIContentGenerator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewOpenAIContentGenerator(apiKey string, opts OpenAIContentOptions) (*OpenAIContentGenerator, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errors.New("openai api key is required for content generation")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = defaultOpenAIChatEndpoint
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}

	return &OpenAIContentGenerator{
		apiKey:   trimmedKey,
		model:    model,
		endpoint: endpoint,
		client:   client,
	}, nil
}

func (g *OpenAIContentGenerator) GenerateWebsite(ctx context.Context, description string) (*GeneratedWebsite, error) {
	content, err := g.complete(ctx, websiteSystemPrompt, description)
	if err != nil {
		return nil, err
	}

	var result GeneratedWebsite
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("openai: unexpected response shape: %w", err)
	}
	return &result, nil
}

func (g *OpenAIContentGenerator) GenerateSection(ctx context.Context, description, title string) (*GeneratedSection, error) {
	prompt := description
	if title = strings.TrimSpace(title); title != "" {
		prompt = fmt.Sprintf("Section title: %s\n\n%s", title, description)
	}

	content, err := g.complete(ctx, sectionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var result GeneratedSection
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("openai: unexpected response shape: %w", err)
	}
	return &result, nil
}

func (g *OpenAIContentGenerator) complete(ctx context.Context, system, user string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("openai content generator is not configured")
	}

	payload := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: failed to encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: failed to build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+g.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("openai: failed to read response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: request failed with status %d: %s", response.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai: failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai: response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
