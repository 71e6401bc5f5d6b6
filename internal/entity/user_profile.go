package entity

import "time"

// UserProfile is a Firestore user document keyed by the Firebase UID.
type UserProfile struct {
	UID       string    `firestore:"uid" json:"uid"`
	Name      string    `firestore:"name" json:"name"`
	Email     string    `firestore:"email" json:"email"`
	Picture   string    `firestore:"picture" json:"picture"`
	LastLogin time.Time `firestore:"last_login" json:"last_login"`
	Coins     []int64   `firestore:"coins" json:"coins"`
	Questions []string  `firestore:"questions" json:"questions"`
	CreatedAt time.Time `firestore:"created_at" json:"created_at"`
}
