package service

import (
	"context"
	"fmt"
	"time"

	"crypto-pulse/internal/registry"
	"crypto-pulse/internal/stream/repository"
	"crypto-pulse/pkg/common"
	"crypto-pulse/pkg/logger"
	"crypto-pulse/pkg/telegram"

	goredis "github.com/redis/go-redis/v9"
)

// AlertService compares the latest aggregated sentiment per coin against
// the subscribed thresholds and notifies on crossings.
type AlertService interface {
	Check(ctx context.Context) error
}

// NewAlertService creates a new alert service. A crossing notifies at most
// once per aggregation window, deduplicated through Redis.
func NewAlertService(
	reg *registry.Registry,
	subscriptions repository.SubscriptionReader,
	sentiments repository.AggregatedSentimentRepository,
	notifier telegram.Notifier,
	redisClient *goredis.Client,
	log *logger.Logger,
) AlertService {
	return &alertService{
		registry:      reg,
		subscriptions: subscriptions,
		sentiments:    sentiments,
		notifier:      notifier,
		redis:         redisClient,
		logger:        log,
	}
}

type alertService struct {
	registry      *registry.Registry
	subscriptions repository.SubscriptionReader
	sentiments    repository.AggregatedSentimentRepository
	notifier      telegram.Notifier
	redis         *goredis.Client
	logger        *logger.Logger
}

func (s *alertService) Check(ctx context.Context) error {
	subs, err := s.subscriptions.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	latest, err := s.sentiments.LatestPerCoin(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latest sentiments: %w", err)
	}

	codes := s.registry.CoinCodes()

	for _, sub := range subs {
		window, ok := latest[sub.CoinID]
		if !ok {
			continue
		}
		if window.SentimentScore > sub.Threshold {
			continue
		}

		dedupKey := fmt.Sprintf("%s:%s:%d", common.RedisKeyAlertDedup, sub.ID, window.WindowStart.Unix())
		set, err := s.redis.SetNX(ctx, dedupKey, 1, 24*time.Hour).Result()
		if err != nil {
			s.logger.Warn("Alert dedup check failed", logger.ErrorField(err))
		} else if !set {
			continue
		}

		code := codes[sub.CoinID]
		if code == "" {
			code = fmt.Sprintf("coin %d", sub.CoinID)
		}
		msg := telegram.FormatSentimentAlert(code, window.SentimentScore, sub.Threshold, window.WindowStart)
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send alert notification",
				logger.ErrorField(err),
				logger.StringField("subscription_id", sub.ID),
			)
			continue
		}
		s.logger.Info("Sentiment alert sent",
			logger.StringField("coin", code),
			logger.StringField("subscription_id", sub.ID),
			logger.Field("score", window.SentimentScore),
		)
	}
	return nil
}
