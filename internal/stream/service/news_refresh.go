package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crypto-pulse/internal/entity"
	"crypto-pulse/internal/registry"
	"crypto-pulse/internal/stream/config"
	"crypto-pulse/internal/stream/repository"
	"crypto-pulse/pkg/logger"
	"crypto-pulse/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	gocache "github.com/patrickmn/go-cache"
)

// NewsRefreshService pulls the configured news feeds, extracts article
// bodies, scores the titles and upserts the crypto_news table.
type NewsRefreshService interface {
	Refresh(ctx context.Context) error
}

// NewNewsRefreshService creates a new news refresh service.
func NewNewsRefreshService(
	cfg *config.Config,
	reg *registry.Registry,
	newsRepo repository.NewsRepository,
	scorer SentimentScorer,
	log *logger.Logger,
) NewsRefreshService {
	return &newsRefreshService{
		cfg:      cfg,
		registry: reg,
		newsRepo: newsRepo,
		scorer:   scorer,
		logger:   log,
		client:   &http.Client{Timeout: 15 * time.Second},
		seen:     gocache.New(6*time.Hour, time.Hour),
	}
}

type newsRefreshService struct {
	cfg      *config.Config
	registry *registry.Registry
	newsRepo repository.NewsRepository
	scorer   SentimentScorer
	logger   *logger.Logger
	client   *http.Client
	// seen short-circuits feed items already processed in recent runs
	// before touching the database.
	seen *gocache.Cache
}

func (s *newsRefreshService) Refresh(ctx context.Context) error {
	parser := gofeed.NewParser()

	for _, feedURL := range s.cfg.News.Feeds {
		feed, err := parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			s.logger.Error("Failed to parse news feed", logger.ErrorField(err), logger.StringField("feed", feedURL))
			continue
		}

		items := feed.Items
		if max := s.cfg.News.MaxArticles; max > 0 && len(items) > max {
			items = items[:max]
		}

		fresh, err := s.filterExistingItems(ctx, items)
		if err != nil {
			s.logger.Error("Failed to filter existing news items", logger.ErrorField(err), logger.StringField("feed", feedURL))
			continue
		}

		var created []entity.NewsArticle
		for _, item := range fresh {
			article, err := s.buildArticle(ctx, item)
			if err != nil {
				s.logger.Error("Failed to process news item", logger.ErrorField(err), logger.StringField("link", item.Link))
				continue
			}

			inserted, err := s.newsRepo.UpsertArticle(ctx, article, article.Keywords)
			if err != nil {
				s.logger.Error("Failed to upsert news article", logger.ErrorField(err), logger.StringField("url", article.URL))
				continue
			}
			s.seen.Set(item.Link, true, gocache.DefaultExpiration)
			if inserted {
				created = append(created, *article)
			}
		}

		if err := s.scoreArticles(ctx, created); err != nil {
			s.logger.Error("Failed to score news articles", logger.ErrorField(err), logger.StringField("feed", feedURL))
		}

		s.logger.Info("News feed refreshed",
			logger.StringField("feed", feedURL),
			logger.IntField("items", len(items)),
			logger.IntField("created", len(created)),
		)
	}
	return nil
}

func (s *newsRefreshService) filterExistingItems(ctx context.Context, items []*gofeed.Item) ([]*gofeed.Item, error) {
	var urls []string
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		if _, hit := s.seen.Get(item.Link); hit {
			continue
		}
		urls = append(urls, item.Link)
	}

	existing, err := s.newsRepo.ExistingURLs(ctx, urls)
	if err != nil {
		return nil, err
	}

	var fresh []*gofeed.Item
	for _, item := range items {
		if item.Link == "" || existing[item.Link] {
			continue
		}
		if _, hit := s.seen.Get(item.Link); hit {
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh, nil
}

func (s *newsRefreshService) buildArticle(ctx context.Context, item *gofeed.Item) (*entity.NewsArticle, error) {
	publishedAt := time.Now().UTC()
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.UTC()
	}

	content, err := s.extractContent(ctx, item.Link)
	if err != nil {
		// Title-only articles are still worth keeping; scoring uses the title.
		s.logger.Warn("Failed to extract article content", logger.ErrorField(err), logger.StringField("link", item.Link))
		content = ""
	}

	article := &entity.NewsArticle{
		Title:        utils.CleanToValidUTF8(item.Title),
		URL:          item.Link,
		NewsDatetime: publishedAt,
		Keywords:     s.matchCoins(item.Title + " " + content),
	}
	return article, nil
}

// extractContent fetches the article page and keeps the first paragraphs of
// the readable body.
func (s *newsRefreshService) extractContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse readable content: %w", err)
	}

	maxParagraphs := s.cfg.News.MaxParagraphs
	if maxParagraphs <= 0 {
		maxParagraphs = 3
	}

	var paragraphs []string
	docHTML.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < maxParagraphs
	})

	if len(paragraphs) == 0 {
		return utils.SafeText(docHTML.Text()), nil
	}
	return utils.SafeText(strings.Join(paragraphs, " ")), nil
}

// matchCoins returns the registry codes mentioned in the text, by coin code
// or name.
func (s *newsRefreshService) matchCoins(text string) []string {
	upper := strings.ToUpper(text)
	var codes []string
	for _, coin := range s.registry.Coins {
		if strings.Contains(upper, strings.ToUpper(coin.Code)) ||
			(coin.Name != "" && strings.Contains(upper, strings.ToUpper(coin.Name))) {
			codes = append(codes, coin.Code)
		}
	}
	return codes
}

func (s *newsRefreshService) scoreArticles(ctx context.Context, articles []entity.NewsArticle) error {
	if len(articles) == 0 {
		return nil
	}

	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}

	scores, err := s.scorer.ScoreTexts(ctx, titles)
	if err != nil {
		return err
	}

	for i, score := range scores {
		if score == nil {
			continue
		}
		if err := s.newsRepo.UpdateScore(ctx, articles[i].ID, *score); err != nil {
			s.logger.Error("Failed to update article score", logger.ErrorField(err), logger.Field("article_id", articles[i].ID))
		}
	}
	return nil
}
