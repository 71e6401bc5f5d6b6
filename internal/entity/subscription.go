package entity

// Subscription is a per-user sentiment alert threshold for one coin,
// stored in Firestore.
type Subscription struct {
	ID        string  `firestore:"-" json:"id"`
	UserID    string  `firestore:"userId" json:"userId"`
	CoinID    uint    `firestore:"coinId" json:"coinId"`
	Threshold float64 `firestore:"threshold" json:"threshold"`
	Email     string  `firestore:"email" json:"email"`
}
