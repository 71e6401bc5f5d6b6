package repository

import (
	"context"
	"errors"

	"crypto-pulse/internal/entity"

	"cloud.google.com/go/firestore"
)

// ErrUserNotFound signals that no profile document exists for a UID.
var ErrUserNotFound = errors.New("user not found")

// usersCollection is the Firestore collection holding user profiles.
const usersCollection = "users"

// UserRepository stores user profiles in Firestore.
type UserRepository interface {
	// Get returns the profile for the given UID, or ErrUserNotFound.
	Get(ctx context.Context, uid string) (*entity.UserProfile, error)
	// Create writes a fresh profile with server timestamps for last_login
	// and created_at.
	Create(ctx context.Context, profile *entity.UserProfile) error
	// BumpLastLogin sets last_login to the server timestamp.
	BumpLastLogin(ctx context.Context, uid string) error
	// UpdateFields applies the given field updates to the profile.
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
	// AddCoin appends the coin id to the coins array if absent.
	AddCoin(ctx context.Context, uid string, coinID int64) error
	// AddQuestion appends the question to the questions array if absent.
	AddQuestion(ctx context.Context, uid string, question string) error
}

// NewUserRepository creates a Firestore-backed user repository.
func NewUserRepository(client *firestore.Client) UserRepository {
	return &userRepository{client: client}
}

type userRepository struct {
	client *firestore.Client
}

func (r *userRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(uid)
}

func (r *userRepository) Get(ctx context.Context, uid string) (*entity.UserProfile, error) {
	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var profile entity.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) Create(ctx context.Context, profile *entity.UserProfile) error {
	coins := profile.Coins
	if coins == nil {
		coins = []int64{}
	}
	questions := profile.Questions
	if questions == nil {
		questions = []string{}
	}

	_, err := r.doc(profile.UID).Set(ctx, map[string]interface{}{
		"uid":        profile.UID,
		"name":       profile.Name,
		"email":      profile.Email,
		"picture":    profile.Picture,
		"coins":      coins,
		"questions":  questions,
		"last_login": firestore.ServerTimestamp,
		"created_at": firestore.ServerTimestamp,
	})
	return err
}

func (r *userRepository) BumpLastLogin(ctx context.Context, uid string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "last_login", Value: firestore.ServerTimestamp},
	})
	return err
}

func (r *userRepository) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := r.doc(uid).Update(ctx, updates)
	return err
}

func (r *userRepository) AddCoin(ctx context.Context, uid string, coinID int64) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "coins", Value: firestore.ArrayUnion(coinID)},
	})
	return err
}

func (r *userRepository) AddQuestion(ctx context.Context, uid string, question string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "questions", Value: firestore.ArrayUnion(question)},
	})
	return err
}
