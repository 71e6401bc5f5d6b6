package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crypto-pulse/internal/sentiment/repository"
	"crypto-pulse/pkg/logger"
)

// ErrNoMessages signals that the requested coin/window holds no messages.
var ErrNoMessages = errors.New("no messages found")

// maxPromptMessages caps how many messages feed the explanation prompt.
const maxPromptMessages = 20

// ExplainService asks the AI backend why a sentiment window turned out the
// way it did.
type ExplainService interface {
	Explain(ctx context.Context, coinID uint, start, end time.Time) (string, error)
}

// NewExplainService creates a new explain service.
func NewExplainService(rawMessageRepo repository.RawMessageRepository, ai repository.AIRepository, log *logger.Logger) ExplainService {
	return &explainService{rawMessageRepo: rawMessageRepo, ai: ai, logger: log}
}

type explainService struct {
	rawMessageRepo repository.RawMessageRepository
	ai             repository.AIRepository
	logger         *logger.Logger
}

func (s *explainService) Explain(ctx context.Context, coinID uint, start, end time.Time) (string, error) {
	contents, err := s.rawMessageRepo.FetchContentForCoin(ctx, coinID, start, end)
	if err != nil {
		return "", err
	}
	if len(contents) == 0 {
		return "", ErrNoMessages
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"Here are %d messages about coin %d between %s and %s:\n\n",
		len(contents), coinID,
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
	))
	for i, content := range contents {
		if i == maxPromptMessages {
			sb.WriteString("\n... and more messages ...\n")
			break
		}
		sb.WriteString("- ")
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	sb.WriteString("\nBased on these, explain why the overall sentiment was positive or negative.")

	explanation, err := s.ai.Explain(ctx, sb.String())
	if err != nil {
		return "", err
	}

	s.logger.Debug("Sentiment explained",
		logger.Field("coin_id", coinID),
		logger.IntField("messages", len(contents)),
	)
	return explanation, nil
}
