package dto

// AggregateRequest lets the caller override the aggregation window.
// Times are RFC3339; the default window is the last hour.
type AggregateRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// BucketEntry is one five-minute aggregation window of the aggregate
// response, coin code to weighted score.
type BucketEntry struct {
	Time  string             `json:"time"`
	Coins map[string]float64 `json:"coins"`
}

// TrailingBucket is one entry of the trailing sentiment response. Besides
// the "time" key it carries one average score per currency id.
type TrailingBucket map[string]interface{}

// MinuteBucket is one entry of the websocket payload, averages grouped by
// UTC minute.
type MinuteBucket struct {
	Time  string               `json:"time"`
	Coins []map[string]float64 `json:"coins"`
}

// ExplainRequest is the body of POST /explain.
type ExplainRequest struct {
	CoinID    uint   `json:"coin_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ExplainResponse carries the AI explanation of a sentiment window.
type ExplainResponse struct {
	Explanation string `json:"explanation"`
}
