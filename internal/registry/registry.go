package registry

import (
	"context"

	"crypto-pulse/internal/entity"
	"crypto-pulse/pkg/logger"

	"gorm.io/gorm"
)

// Registry is the unified coin/question configuration shared by the stream
// and sentiment services, loaded once at startup.
type Registry struct {
	Coins     []entity.Currency
	Questions []entity.Question
}

// CoinCodes returns coin id -> code.
func (r *Registry) CoinCodes() map[uint]string {
	codes := make(map[uint]string, len(r.Coins))
	for _, coin := range r.Coins {
		codes[coin.ID] = coin.Code
	}
	return codes
}

// QuestionCodes returns question id -> code.
func (r *Registry) QuestionCodes() map[uint]string {
	codes := make(map[uint]string, len(r.Questions))
	for _, q := range r.Questions {
		codes[q.ID] = q.Code
	}
	return codes
}

// defaultCoins mirrors the tracked coin list used before the registry moved
// to the database; it backs empty or unreachable tables.
var defaultCoins = []entity.Currency{
	{ID: 91, Code: "BTC", Name: "Bitcoin", Subreddit: "Bitcoin"},
	{ID: 92, Code: "ETH", Name: "Ethereum", Subreddit: "ethereum"},
	{ID: 93, Code: "USDT", Name: "Tether", Subreddit: "Tether+CryptoCurrency"},
	{ID: 94, Code: "USDC", Name: "USD Coin", Subreddit: "CryptoCurrency"},
	{ID: 95, Code: "BNB", Name: "BNB", Subreddit: "binance"},
	{ID: 96, Code: "ADA", Name: "Cardano", Subreddit: "cardano"},
	{ID: 97, Code: "XRP", Name: "XRP", Subreddit: "Ripple"},
	{ID: 99, Code: "SOL", Name: "Solana", Subreddit: "solana"},
	{ID: 100, Code: "DOGE", Name: "Dogecoin", Subreddit: "dogecoin"},
	{ID: 103, Code: "TRX", Name: "Tron", Subreddit: "Tronix"},
}

var defaultQuestions = []entity.Question{
	{ID: 1, Code: "1", Label: "features", Query: "\"new features\" OR \"use case\"", Text: "New Features or Use Cases of \"coin_name\""},
	{ID: 2, Code: "2", Label: "leadership", Query: "founder OR leadership", Text: "Founders or Leadership of \"coin_name\""},
	{ID: 3, Code: "3", Label: "security", Query: "hack OR \"security concern\"", Text: "Security Concerns or Hacks related to \"coin_name\""},
	{ID: 4, Code: "4", Label: "market", Query: "\"price prediction\"", Text: "Market Trends and Price Predictions of \"coin_name\""},
	{ID: 5, Code: "5", Label: "regulation", Query: "regulation OR policy", Text: "Regulatory Updates and Government Policies affecting \"coin_name\""},
	{ID: 6, Code: "6", Label: "community", Query: "adoption OR community", Text: "Community Sentiment and Adoption for \"coin_name\""},
	{ID: 7, Code: "7", Label: "partnerships", Query: "partnership OR integration", Text: "Partnerships and Integrations involving \"coin_name\""},
	{ID: 8, Code: "8", Label: "mining", Query: "mining OR staking", Text: "Mining and Staking Discussions around \"coin_name\""},
}

// Repository loads the tracked coin and question registries.
type Repository interface {
	GetCurrencies(ctx context.Context) ([]entity.Currency, error)
	GetQuestions(ctx context.Context) ([]entity.Question, error)
}

// NewRepository creates a new GORM-based registry repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

// GetCurrencies retrieves all tracked currencies ordered by id.
func (r *repository) GetCurrencies(ctx context.Context) ([]entity.Currency, error) {
	var currencies []entity.Currency
	if err := r.db.WithContext(ctx).Order("id").Find(&currencies).Error; err != nil {
		return nil, err
	}
	return currencies, nil
}

// GetQuestions retrieves all tracked questions ordered by id.
func (r *repository) GetQuestions(ctx context.Context) ([]entity.Question, error) {
	var questions []entity.Question
	if err := r.db.WithContext(ctx).Order("id").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// Load reads the coin and question registries from the database, falling
// back to the compiled-in defaults when a table is empty.
func Load(ctx context.Context, repo Repository, log *logger.Logger) (*Registry, error) {
	coins, err := repo.GetCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := repo.GetQuestions(ctx)
	if err != nil {
		return nil, err
	}

	if len(coins) == 0 {
		log.Warn("Currency registry is empty, using built-in defaults")
		coins = defaultCoins
	}
	if len(questions) == 0 {
		log.Warn("Question registry is empty, using built-in defaults")
		questions = defaultQuestions
	}

	return &Registry{Coins: coins, Questions: questions}, nil
}
