package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "gemini-embedding-001"
	defaultMaxRetries     = 2

	// embeddingDimensions is requested explicitly; the embedding model's
	// native dimensionality is larger.
	embeddingDimensions = 768

	retryBaseDelay = 500 * time.Millisecond
)

// sleep is swappable so retry tests run instantly.
var sleep = time.Sleep

// modelsAPI is the slice of the genai SDK the generator uses.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Generator wraps the Google GenAI client with retries and response
// flattening for prompt and embedding calls.
type Generator struct {
	models     modelsAPI
	model      string
	embedModel string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model, embedModel string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if embedModel = strings.TrimSpace(embedModel); embedModel == "" {
		embedModel = defaultEmbeddingModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:     client.Models,
		model:      model,
		embedModel: embedModel,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// GenerateContent sends the prompt to Gemini and returns the flattened
// textual response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var resp *genai.GenerateContentResponse
	err := g.withRetries(ctx, "generate content", func() error {
		var callErr error
		resp, callErr = g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// EmbedContent embeds the given text and returns the raw vector.
func (g *Generator) EmbedContent(ctx context.Context, text string) ([]float32, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini generator is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	cfg := &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(embeddingDimensions)),
	}

	var resp *genai.EmbedContentResponse
	err := g.withRetries(ctx, "embed content", func() error {
		var callErr error
		resp, callErr = g.models.EmbedContent(ctx, g.embedModel, genai.Text(text), cfg)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini api returned empty embedding")
	}

	return resp.Embeddings[0].Values, nil
}

// Model returns the generation model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) withRetries(ctx context.Context, op string, call func() error) error {
	var err error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("retrying gemini call",
				zap.String("operation", op),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			sleep(retryBaseDelay << (attempt - 1))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = call()
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}
	}

	return err
}

// isRetryable treats server-side failures as transient. Client errors and
// quota exhaustion are returned to the caller immediately.
func isRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500
	}
	return false
}
