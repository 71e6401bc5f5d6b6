package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crypto-pulse/pkg/config"
)

// SentimentScorer scores a batch of text blocks, one result per input in the
// same order; nil marks a block the scorer declined (empty text).
type SentimentScorer interface {
	ScoreTexts(ctx context.Context, texts []string) ([]*float64, error)
}

// NewSentimentClient creates an HTTP client for the sentiment service.
func NewSentimentClient(cfg config.Sentiment) (SentimentScorer, error) {
	timeout := 30 * time.Second
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid sentiment timeout: %w", err)
		}
		timeout = parsed
	}
	return &sentimentClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type sentimentClient struct {
	baseURL string
	client  *http.Client
}

func (c *sentimentClient) ScoreTexts(ctx context.Context, texts []string) ([]*float64, error) {
	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal texts: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/para-sentiment-analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sentiment request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sentiment response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sentiment service returned status %d: %s", resp.StatusCode, string(body))
	}

	var scores []*float64
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode sentiment response: %w", err)
	}
	if len(scores) != len(texts) {
		return nil, fmt.Errorf("sentiment service returned %d scores for %d texts", len(scores), len(texts))
	}
	return scores, nil
}
