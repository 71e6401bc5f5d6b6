package common

const (
	SourceReddit  = "reddit"
	SourceTwitter = "twitter"

	AuthorUnknown = "unknown"

	RedisKeyPostCache  = "stream.posts"
	RedisKeyAlertDedup = "stream.alert.sent"
)

// TimeFilters lists the accepted recency filters for a Reddit search.
var TimeFilters = map[string]bool{
	"day":   true,
	"week":  true,
	"month": true,
	"year":  true,
	"all":   true,
}

const (
	TimeFilterAll     = "all"
	SortRelevance     = "relevance"
	SortNew           = "new"
	MinFetchLimit     = 1
	MaxFetchLimit     = 100
	DefaultFetchLimit = 10
)
