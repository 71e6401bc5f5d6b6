package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crypto-pulse/internal/sentiment/config"
	"crypto-pulse/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository generates natural-language answers for sentiment prompts.
type AIRepository interface {
	Explain(ctx context.Context, prompt string) (string, error)
}

// geminiAIRepository is an AIRepository backed by the Google Gemini API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new Gemini-backed AI repository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	maxPerMinute := cfg.Gemini.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 10
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) Explain(ctx context.Context, prompt string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		r.logger.Error("Gemini request failed", logger.ErrorField(err))
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
