package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

const (
	defaultSearchLimit int64 = 10
	maxSearchLimit     int64 = 25
)

// YouTubeService searches videos through the YouTube Data API v3.
type YouTubeService struct {
	service    *youtube.Service
	limiter    *rate.Limiter
	maxResults int64
}

// NewYouTubeService builds a search client from config. Extra options are appended
// after the API key and endpoint, so tests can point it at a fake server.
func NewYouTubeService(ctx context.Context, config shared.YouTubeConfig, opts ...option.ClientOption) (*YouTubeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: youtube.api_key is required for search", shared.ErrMissingConfig)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(config.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultSearchLimit
	}

	return &YouTubeService{
		service:    service,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxResults: min(maxResults, maxSearchLimit),
	}, nil
}

// Search returns up to limit videos matching query, with duration and view count filled in.
//
// A non-positive limit uses the configured default.
func (y *YouTubeService) Search(ctx context.Context, query string, limit int64) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = y.maxResults
	}
	limit = min(limit, maxSearchLimit)

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	search, err := y.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: youtube search: %v", shared.ErrAPIRequest, err)
	}

	results := make([]models.SearchResult, 0, len(search.Items))
	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		ids = append(ids, item.Id.VideoId)
		results = append(results, models.SearchResult{
			VideoID:      item.Id.VideoId,
			Title:        html.UnescapeString(item.Snippet.Title),
			Description:  html.UnescapeString(item.Snippet.Description),
			ChannelTitle: html.UnescapeString(item.Snippet.ChannelTitle),
			Thumbnail:    thumbnailURL(item.Snippet.Thumbnails),
		})
	}

	if len(ids) == 0 {
		return results, nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	details, err := y.service.Videos.List([]string{"contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: youtube video details: %v", shared.ErrAPIRequest, err)
	}

	byID := make(map[string]*youtube.Video, len(details.Items))
	for _, v := range details.Items {
		byID[v.Id] = v
	}

	for i := range results {
		v, ok := byID[results[i].VideoID]
		if !ok {
			continue
		}
		if v.ContentDetails != nil {
			results[i].Duration = v.ContentDetails.Duration
		}
		if v.Statistics != nil {
			results[i].ViewCount = v.Statistics.ViewCount
		}
	}

	return results, nil
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
