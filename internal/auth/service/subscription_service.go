package service

import (
	"context"

	"crypto-pulse/internal/auth/repository"
	"crypto-pulse/internal/entity"
	"crypto-pulse/pkg/logger"
)

// SubscriptionService manages per-user alert subscriptions.
type SubscriptionService interface {
	List(ctx context.Context, uid string) ([]entity.Subscription, error)
	Create(ctx context.Context, sub *entity.Subscription) error
	Delete(ctx context.Context, id string) error
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(subs repository.SubscriptionRepository, log *logger.Logger) SubscriptionService {
	return &subscriptionService{subs: subs, logger: log}
}

type subscriptionService struct {
	subs   repository.SubscriptionRepository
	logger *logger.Logger
}

func (s *subscriptionService) List(ctx context.Context, uid string) ([]entity.Subscription, error) {
	return s.subs.ListForUser(ctx, uid)
}

func (s *subscriptionService) Create(ctx context.Context, sub *entity.Subscription) error {
	if err := s.subs.Create(ctx, sub); err != nil {
		return err
	}
	s.logger.Info("Alert subscription created",
		logger.StringField("id", sub.ID),
		logger.StringField("uid", sub.UserID),
		logger.Field("coin_id", sub.CoinID),
	)
	return nil
}

func (s *subscriptionService) Delete(ctx context.Context, id string) error {
	return s.subs.Delete(ctx, id)
}
