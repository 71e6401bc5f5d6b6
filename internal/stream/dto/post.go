package dto

// RawPost is a normalized social-media post as returned by the fetch
// endpoints, before persistence.
type RawPost struct {
	Coin        string `json:"coin"`
	CoinID      uint   `json:"coin_id"`
	Category    string `json:"category"`
	QuestionID  uint   `json:"question_id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"`
	Author      string `json:"author"`
	Score       int    `json:"score"`
	URL         string `json:"url"`
	NumComments int    `json:"num_comments"`
	ExternalID  string `json:"external_id"`
	Source      string `json:"source"`
}

// RedditDumpRequest is the body of POST /reddit_db_dump.
type RedditDumpRequest struct {
	Limit      int    `json:"limit"`
	TimeFilter string `json:"time_filter"`
}

// TwitterPostsRequest is the body of POST /twitter_posts.
type TwitterPostsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// FailedRecord describes one record the sink could not persist.
type FailedRecord struct {
	ExternalID string `json:"external_id"`
	Reason     string `json:"reason"`
}

// DumpResponse summarizes a fetch-and-store run.
type DumpResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
	Failed   []FailedRecord `json:"failed"`
}

// StatusResponse is the generic status/message body.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
