package repository

import (
	"context"

	"crypto-pulse/internal/entity"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

// subscriptionsCollection is the Firestore collection holding alert
// subscriptions.
const subscriptionsCollection = "alert_subscriptions"

// SubscriptionRepository stores per-user alert subscriptions in Firestore.
type SubscriptionRepository interface {
	// ListForUser returns the subscriptions owned by the given UID.
	ListForUser(ctx context.Context, uid string) ([]entity.Subscription, error)
	// Create writes the subscription under a fresh UUID document id and
	// fills sub.ID.
	Create(ctx context.Context, sub *entity.Subscription) error
	// Delete removes the subscription document.
	Delete(ctx context.Context, id string) error
}

// NewSubscriptionRepository creates a Firestore-backed subscription
// repository.
func NewSubscriptionRepository(client *firestore.Client) SubscriptionRepository {
	return &subscriptionRepository{client: client}
}

type subscriptionRepository struct {
	client *firestore.Client
}

func (r *subscriptionRepository) ListForUser(ctx context.Context, uid string) ([]entity.Subscription, error) {
	iter := r.client.Collection(subscriptionsCollection).
		Where("userId", "==", uid).
		Documents(ctx)
	defer iter.Stop()

	subs := []entity.Subscription{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var s entity.Subscription
		if err := doc.DataTo(&s); err != nil {
			return nil, err
		}
		s.ID = doc.Ref.ID
		subs = append(subs, s)
	}
	return subs, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	sub.ID = uuid.NewString()
	_, err := r.client.Collection(subscriptionsCollection).Doc(sub.ID).Set(ctx, map[string]interface{}{
		"userId":    sub.UserID,
		"coinId":    sub.CoinID,
		"threshold": sub.Threshold,
		"email":     sub.Email,
	})
	return err
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(subscriptionsCollection).Doc(id).Delete(ctx)
	return err
}
