package service

import (
	"context"
	"testing"

	"crypto-pulse/internal/auth/repository"
	"crypto-pulse/internal/entity"
	"crypto-pulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo mirrors the Firestore repository semantics in memory:
// array adds are set-like, field updates are merges.
type fakeUserRepo struct {
	profiles map[string]*entity.UserProfile
	bumps    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{profiles: map[string]*entity.UserProfile{}}
}

func (f *fakeUserRepo) Get(ctx context.Context, uid string) (*entity.UserProfile, error) {
	p, ok := f.profiles[uid]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, profile *entity.UserProfile) error {
	copied := *profile
	if copied.Coins == nil {
		copied.Coins = []int64{}
	}
	if copied.Questions == nil {
		copied.Questions = []string{}
	}
	f.profiles[profile.UID] = &copied
	return nil
}

func (f *fakeUserRepo) BumpLastLogin(ctx context.Context, uid string) error {
	f.bumps++
	return nil
}

func (f *fakeUserRepo) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	p := f.profiles[uid]
	for key, value := range fields {
		switch key {
		case "name":
			p.Name = value.(string)
		case "coins":
			p.Coins = value.([]int64)
		case "questions":
			p.Questions = value.([]string)
		default:
			panic("unexpected field " + key)
		}
	}
	return nil
}

func (f *fakeUserRepo) AddCoin(ctx context.Context, uid string, coinID int64) error {
	p := f.profiles[uid]
	for _, c := range p.Coins {
		if c == coinID {
			return nil
		}
	}
	p.Coins = append(p.Coins, coinID)
	return nil
}

func (f *fakeUserRepo) AddQuestion(ctx context.Context, uid string, question string) error {
	p := f.profiles[uid]
	for _, q := range p.Questions {
		if q == question {
			return nil
		}
	}
	p.Questions = append(p.Questions, question)
	return nil
}

func userTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func TestUserService_UpdateProfileDropsUnknownFields(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.UserProfile{UID: "u1", Name: "Alice"}))
	svc := NewUserService(repo, userTestLogger(t))

	updated, err := svc.UpdateProfile(context.Background(), "u1", map[string]interface{}{
		"name":               "Alice B",
		"coins":              []int64{91, 92},
		"unauthorized_field": "ignored",
		"email":              "evil@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, []int64{91, 92}, updated.Coins)
	assert.Empty(t, updated.Email)
}

func TestUserService_UpdateProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), userTestLogger(t))

	_, err := svc.UpdateProfile(context.Background(), "ghost", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserService_AddCoinIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.UserProfile{UID: "u1"}))
	svc := NewUserService(repo, userTestLogger(t))

	coins, err := svc.AddCoin(context.Background(), "u1", 91)
	require.NoError(t, err)
	assert.Equal(t, []int64{91}, coins)

	coins, err = svc.AddCoin(context.Background(), "u1", 91)
	require.NoError(t, err)
	assert.Equal(t, []int64{91}, coins)

	coins, err = svc.AddCoin(context.Background(), "u1", 92)
	require.NoError(t, err)
	assert.Equal(t, []int64{91, 92}, coins)
}

func TestUserService_AddQuestion(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.UserProfile{UID: "u1"}))
	svc := NewUserService(repo, userTestLogger(t))

	questions, err := svc.AddQuestion(context.Background(), "u1", "is btc a good buy")
	require.NoError(t, err)
	assert.Equal(t, []string{"is btc a good buy"}, questions)

	_, err = svc.AddQuestion(context.Background(), "ghost", "anything")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
