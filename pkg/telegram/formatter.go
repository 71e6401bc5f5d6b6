package telegram

import (
	"fmt"
	"time"
)

// FormatSentimentAlert builds the Markdown message for a sentiment threshold
// crossing on a tracked coin.
func FormatSentimentAlert(coinCode string, score, threshold float64, window time.Time) string {
	return fmt.Sprintf(
		"*Sentiment Alert* %s\nScore: `%.4f` crossed threshold `%.4f`\nWindow: %s",
		coinCode, score, threshold, window.UTC().Format(time.RFC3339),
	)
}
