package dto

// NewsRequest is the body of POST /news.
type NewsRequest struct {
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	CurrencyCodes []string `json:"currency_codes"`
}

// ErrorBody is the error envelope of the news endpoint.
type ErrorBody struct {
	Error string `json:"error"`
}

// NewsArticleResponse is one article row of the news filter response.
type NewsArticleResponse struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Score         *float64 `json:"score"`
	CurrencyCodes []string `json:"currency_codes"`
	NewsDatetime  string   `json:"newsdatetime"`
}
