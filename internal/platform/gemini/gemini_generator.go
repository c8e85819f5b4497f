package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/lexday/lexday-api/internal/config"
	"github.com/lexday/lexday-api/internal/generation"
	"google.golang.org/genai"
)

// defaultPromptTemplate asks for a strict JSON reply so the response can be
// unmarshalled directly into responseSchema.
const defaultPromptTemplate = `You are helping someone learn vocabulary.
For the term "{{.Term}}" (translation: "{{.Translation}}"), reply with JSON only, no prose:
{"explanation": "<one or two sentences on usage and nuance>", "examples": ["<example sentence>", "<example sentence>"]}`

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to produce usage notes for vocabulary entries.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// NewGeminiGenerator creates a new instance of GeminiGenerator with the
// provided dependencies.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("word_notes").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Ensure GeminiGenerator implements generation.Generator.
var _ generation.Generator = (*GeminiGenerator)(nil)

// GenerateNotes implements generation.Generator.GenerateNotes.
func (g *GeminiGenerator) GenerateNotes(
	ctx context.Context,
	term, translation string,
) (*generation.WordNotes, error) {
	prompt, err := g.createPrompt(term, translation)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if response.Explanation == "" {
		return nil, fmt.Errorf("%w: empty explanation", generation.ErrInvalidResponse)
	}

	return &generation.WordNotes{
		Explanation: response.Explanation,
		Examples:    response.Examples,
	}, nil
}

func (g *GeminiGenerator) createPrompt(term, translation string) (string, error) {
	if term == "" {
		return "", fmt.Errorf("%w: term cannot be empty", generation.ErrGenerationFailed)
	}

	var promptBuffer bytes.Buffer
	err := g.promptTemplate.Execute(&promptBuffer, promptData{
		Term:        term,
		Translation: translation,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential
// backoff retry logic. API transport errors are treated as transient and
// retried; malformed and safety-blocked responses are permanent and
// returned immediately.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		response, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.DebugContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single API call. The bool reports whether a failure
// is worth retrying.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (*responseSchema, bool, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, true, fmt.Errorf("gemini API call error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, false, nil
}
