// Package media fetches articles, news and tags from the media
// service.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/domain/media"
	"github.com/ecomm/storefront/internal/domain/shared"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
)

// ListOptions filter and page an article listing
type ListOptions struct {
	Type   string
	Tag    string
	Query  string
	Limit  int
	Offset int
}

// Page is a paged article listing. Total counts all matches, not just
// the returned slice.
type Page struct {
	Articles []media.Article `json:"articles"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

// pagedResponse is the media service's listing payload: the page meta
// sits beside the envelope's data, not inside it
type pagedResponse struct {
	Articles []media.Article `json:"articles"`
	Data     []media.Article `json:"data"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

// Service fetches published media content
type Service struct {
	media *gateway.Client
	log   *zap.Logger
}

// NewService creates a media service
func NewService(client *gateway.Client, log *zap.Logger) *Service {
	return &Service{media: client, log: log}
}

// Featured returns up to limit featured articles for the slideshow
func (s *Service) Featured(ctx context.Context, limit int) ([]media.Article, error) {
	if limit <= 0 {
		limit = 5
	}
	env := s.media.Get(ctx, fmt.Sprintf("/articles/featured?limit=%d", limit))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load featured articles")
	}
	return s.decodeArticles(env)
}

// LatestNews returns the most recent news items
func (s *Service) LatestNews(ctx context.Context, limit int) ([]media.Article, error) {
	if limit <= 0 {
		limit = 3
	}
	env := s.media.Get(ctx, fmt.Sprintf("/news/latest?limit=%d", limit))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load news")
	}
	return s.decodeArticles(env)
}

// Articles returns a filtered, paged listing
func (s *Service) Articles(ctx context.Context, opts ListOptions) (*Page, error) {
	env := s.media.Get(ctx, "/articles?"+opts.query())
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load articles")
	}

	var resp pagedResponse
	if err := env.Decode(&resp); err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected article list format")
	}

	articles := resp.Articles
	if articles == nil {
		articles = resp.Data
	}
	if articles == nil {
		articles = []media.Article{}
	}

	page := &Page{
		Articles: articles,
		Total:    resp.Total,
		Limit:    resp.Limit,
		Offset:   resp.Offset,
	}
	if page.Total == 0 {
		page.Total = len(articles)
	}
	if page.Limit == 0 {
		page.Limit = opts.Limit
	}
	return page, nil
}

// ArticleByID fetches one article with its full content and gallery
func (s *Service) ArticleByID(ctx context.Context, id string) (*media.Article, error) {
	env := s.media.Get(ctx, "/articles/"+url.PathEscape(id))
	if !env.Succeeded() {
		if env.HTTPCode == 404 {
			return nil, shared.ErrNotFound
		}
		return nil, s.upstreamError(env, "failed to load article")
	}

	var a media.Article
	if err := env.DecodeData(&a); err != nil {
		if err := env.Decode(&a); err != nil {
			return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected article format")
		}
	}
	return &a, nil
}

// Tags lists the known article tags
func (s *Service) Tags(ctx context.Context) ([]media.Tag, error) {
	env := s.media.Get(ctx, "/tags")
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load tags")
	}

	var tags []media.Tag
	if err := env.DecodeData(&tags); err == nil {
		return tags, nil
	}
	var wrapper struct {
		Tags []media.Tag `json:"tags"`
	}
	if err := env.Decode(&wrapper); err == nil && wrapper.Tags != nil {
		return wrapper.Tags, nil
	}
	return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected tag list format")
}

// ByTagSlug lists articles carrying the tag
func (s *Service) ByTagSlug(ctx context.Context, slug string, limit, offset int) (*Page, error) {
	return s.Articles(ctx, ListOptions{Tag: slug, Limit: limit, Offset: offset})
}

func (s *Service) decodeArticles(env *gateway.Envelope) ([]media.Article, error) {
	var articles []media.Article
	if err := env.DecodeData(&articles); err == nil {
		return articles, nil
	}

	var resp pagedResponse
	if err := env.Decode(&resp); err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected article list format")
	}
	if resp.Articles != nil {
		return resp.Articles, nil
	}
	return resp.Data, nil
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Type != "" {
		q.Set("type", o.Type)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if s := strings.TrimSpace(o.Query); s != "" {
		q.Set("q", s)
	}
	if o.Limit > 0 {
		q.Set("limit", fmt.Sprint(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", fmt.Sprint(o.Offset))
	}
	return q.Encode()
}

func (s *Service) upstreamError(env *gateway.Envelope, fallback string) error {
	msg := env.Message
	if msg == "" {
		msg = fallback
	}
	s.log.Error("media request failed",
		zap.Int("http_code", env.HTTPCode),
		zap.String("message", msg))
	return shared.NewDomainError("UPSTREAM_FAILURE", msg)
}
