package repository

import (
	"context"

	"crypto-pulse/internal/entity"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// SubscriptionReader lists all alert subscriptions for the alert check job.
type SubscriptionReader interface {
	ListAll(ctx context.Context) ([]entity.Subscription, error)
}

// NewSubscriptionReader creates a Firestore-backed subscription reader.
func NewSubscriptionReader(client *firestore.Client) SubscriptionReader {
	return &subscriptionReader{client: client}
}

type subscriptionReader struct {
	client *firestore.Client
}

func (r *subscriptionReader) ListAll(ctx context.Context) ([]entity.Subscription, error) {
	iter := r.client.Collection("alert_subscriptions").Documents(ctx)
	defer iter.Stop()

	var subs []entity.Subscription
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
