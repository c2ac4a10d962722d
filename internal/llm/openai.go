package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/pennywise/internal/common"
)

const (
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultOpenAIImageModel = "dall-e-3"
	defaultMaxTokens        = 1000
)

// openAIClient implements Client and ImageGenerator for the OpenAI API.
type openAIClient struct {
	httpClient  *http.Client
	temperature *float64
	apiKey      string
	baseURL     string
	model       string
	imageModel  string
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = defaultOpenAIImageModel
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	// The service default temperature applies unless one is configured.
	var temperature *float64
	if cfg.Temperature != 0 {
		temperature = Float(cfg.Temperature)
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       model,
		imageModel:  imageModel,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  newHTTPClient(cfg.Timeout),
	}, nil
}

// openAIResponse represents the OpenAI chat completion response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// openAIImageResponse represents the OpenAI image generation response structure.
type openAIImageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Created int64 `json:"created"`
}

func (c *openAIClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}

// Complete sends a chat completion request and returns the first choice's text.
func (c *openAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	requestBody := map[string]any{
		"model":      model,
		"messages":   req.Messages,
		"max_tokens": maxTokens,
		"n":          1,
	}
	if req.Temperature != nil {
		requestBody["temperature"] = *req.Temperature
	} else if c.temperature != nil {
		requestBody["temperature"] = *c.temperature
	}

	var response openAIResponse
	if err := postJSON(ctx, c.httpClient, "OpenAI", c.baseURL+"/v1/chat/completions", c.headers(), requestBody, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", common.ErrEmptyReply
	}

	return content, nil
}

// GenerateImage renders a single image and returns its URL.
func (c *openAIClient) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.imageModel
	}

	requestBody := map[string]any{
		"model":  model,
		"prompt": req.Prompt,
		"n":      1,
	}
	if req.Size != "" {
		requestBody["size"] = req.Size
	}
	if req.Quality != "" {
		requestBody["quality"] = req.Quality
	}
	if req.Style != "" {
		requestBody["style"] = req.Style
	}

	var response openAIImageResponse
	if err := postJSON(ctx, c.httpClient, "OpenAI", c.baseURL+"/v1/images/generations", c.headers(), requestBody, &response); err != nil {
		return "", err
	}

	if len(response.Data) == 0 || response.Data[0].URL == "" {
		return "", fmt.Errorf("no image returned")
	}

	return response.Data[0].URL, nil
}
