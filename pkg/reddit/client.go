package reddit

import (
	"context"
	"fmt"
	"time"

	"github.com/vartanbeno/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

// Config holds Reddit API credentials and client limits.
type Config struct {
	ClientID            string
	ClientSecret        string
	Username            string
	Password            string
	UserAgent           string
	MaxRequestPerMinute int
}

// SearchOptions controls a single subreddit search.
type SearchOptions struct {
	Limit int
	Sort  string // "relevance" or "new"
	Time  string // "day", "week", "month", "year", "all"
}

// Post is a normalized Reddit submission.
type Post struct {
	ExternalID  string
	Title       string
	Body        string
	Author      string
	Created     time.Time
	Score       int
	URL         string
	NumComments int
	Subreddit   string
}

// Client wraps the go-reddit client with request rate limiting.
type Client struct {
	api     *reddit.Client
	limiter *rate.Limiter
}

// NewClient creates a new Reddit client.
func NewClient(cfg Config) (*Client, error) {
	credentials := reddit.Credentials{
		ID:       cfg.ClientID,
		Secret:   cfg.ClientSecret,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	api, err := reddit.NewClient(credentials, reddit.WithUserAgent(cfg.UserAgent))
	if err != nil {
		return nil, fmt.Errorf("failed to create reddit client: %w", err)
	}

	rpm := cfg.MaxRequestPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)

	return &Client{api: api, limiter: limiter}, nil
}

// SearchPosts searches a subreddit and normalizes the results.
func (c *Client) SearchPosts(ctx context.Context, query, subreddit string, opts SearchOptions) ([]Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	results, _, err := c.api.Subreddit.SearchPosts(ctx, query, subreddit, &reddit.ListPostSearchOptions{
		ListPostOptions: reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: opts.Limit},
			Time:        opts.Time,
		},
		Sort: opts.Sort,
	})
	if err != nil {
		return nil, fmt.Errorf("reddit search failed: %w", err)
	}

	posts := make([]Post, 0, len(results))
	for _, p := range results {
		post := Post{
			ExternalID:  p.FullID,
			Title:       p.Title,
			Body:        p.Body,
			Author:      p.Author,
			Score:       p.Score,
			URL:         p.URL,
			NumComments: p.NumberOfComments,
			Subreddit:   p.SubredditName,
		}
		if p.Created != nil {
			post.Created = p.Created.Time
		}
		if post.URL == "" && p.Permalink != "" {
			post.URL = "https://www.reddit.com" + p.Permalink
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Me returns the username of the authenticated account. Used as a
// credentials check.
func (c *Client) Me(ctx context.Context) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}
	account, _, err := c.api.Account.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("reddit auth check failed: %w", err)
	}
	return account.Name, nil
}
