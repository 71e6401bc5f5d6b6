package dto

import "crypto-pulse/internal/entity"

// GoogleAuthRequest is the body of POST /api/auth/google.
type GoogleAuthRequest struct {
	IDToken string `json:"idToken"`
}

// AuthResponse is the sign-in response carrying the profile and a custom
// session token.
type AuthResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    *entity.UserProfile `json:"user"`
	Token   string              `json:"token"`
}

// ProfileResponse wraps a user profile.
type ProfileResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	User    *entity.UserProfile `json:"user"`
}

// AddCoinRequest is the body of POST /api/users/coins.
type AddCoinRequest struct {
	CoinID int64 `json:"coin_id"`
}

// CoinsResponse returns the updated coin set after an add.
type CoinsResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Coins   []int64 `json:"coins"`
}

// AddQuestionRequest is the body of POST /api/users/questions.
type AddQuestionRequest struct {
	Question string `json:"question"`
}

// QuestionsResponse returns the updated question set after an add.
type QuestionsResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Questions []string `json:"questions"`
}

// CreateAlertRequest is the body of POST /alerts.
type CreateAlertRequest struct {
	CoinID    uint    `json:"coinId"`
	Threshold float64 `json:"threshold"`
	Email     string  `json:"email"`
}
