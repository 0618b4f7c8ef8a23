package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"ytexport/normalize"
	"ytexport/retry"
)

// DataAPISource implements MetadataSource using YouTube Data API v3.
type DataAPISource struct {
	service *yt.Service

	// RetryConfig governs transport-level retries within one lookup.
	// Source-switching on persistent failure is the Pipeline's job.
	RetryConfig retry.Config
}

// NewDataAPISource creates a Data API-backed metadata source. The API key is
// required; without one the pipeline goes straight to the fallback source.
func NewDataAPISource(ctx context.Context, apiKey string) (*DataAPISource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &DataAPISource{
		service:     service,
		RetryConfig: retry.DefaultConfig(),
	}, nil
}

// ListPlaylistItems fetches all video IDs of a playlist in playlist order,
// paginating 50 at a time.
func (s *DataAPISource) ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string

	pageToken := ""
	for {
		err := retry.Do(ctx, s.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
			call := s.service.PlaylistItems.List([]string{"contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(50).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return err
			}

			for _, item := range resp.Items {
				if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
					ids = append(ids, item.ContentDetails.VideoId)
				}
			}
			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, &SourceError{Source: "api", ID: playlistID, Err: classifyAPIError(err)}
		}
		if pageToken == "" {
			break
		}
	}

	log.Printf("youtube: api listed %d playlist items for %s", len(ids), playlistID)
	return ids, nil
}

// LookupSnippet returns the display metadata for one video.
func (s *DataAPISource) LookupSnippet(ctx context.Context, videoID string) (*Snippet, error) {
	item, err := s.lookupVideo(ctx, videoID, "snippet")
	if err != nil {
		return nil, err
	}
	if item.Snippet == nil {
		return nil, &SourceError{Source: "api", ID: videoID, Err: ErrSourceEmpty}
	}

	snippet := &Snippet{Title: item.Snippet.Title}
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		snippet.PublishedAt = t.UTC()
	} else {
		snippet.PublishedAt = normalize.ParseFlexibleDate(item.Snippet.PublishedAt)
	}
	return snippet, nil
}

// LookupContentDetails returns the ISO-8601 duration token for one video.
func (s *DataAPISource) LookupContentDetails(ctx context.Context, videoID string) (string, error) {
	item, err := s.lookupVideo(ctx, videoID, "contentDetails")
	if err != nil {
		return "", err
	}
	if item.ContentDetails == nil {
		return "", &SourceError{Source: "api", ID: videoID, Err: ErrSourceEmpty}
	}
	return item.ContentDetails.Duration, nil
}

// LookupStatistics returns view and like counts for one video. LikeCount is
// zero when the video hides it.
func (s *DataAPISource) LookupStatistics(ctx context.Context, videoID string) (*Statistics, error) {
	item, err := s.lookupVideo(ctx, videoID, "statistics")
	if err != nil {
		return nil, err
	}
	if item.Statistics == nil {
		return nil, &SourceError{Source: "api", ID: videoID, Err: ErrSourceEmpty}
	}
	return &Statistics{
		ViewCount: int64(item.Statistics.ViewCount),
		LikeCount: int64(item.Statistics.LikeCount),
	}, nil
}

// lookupVideo performs one Videos.List call for a single part.
func (s *DataAPISource) lookupVideo(ctx context.Context, videoID, part string) (*yt.Video, error) {
	var item *yt.Video

	err := retry.Do(ctx, s.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
		call := s.service.Videos.List([]string{part}).
			Id(videoID).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return ErrSourceEmpty
		}
		item = resp.Items[0]
		return nil
	})
	if err != nil {
		return nil, &SourceError{Source: "api", ID: videoID, Err: classifyAPIError(err)}
	}
	return item, nil
}

// classifyAPIError maps Data API failures onto the extraction error
// taxonomy. Applied once, after transport retries are exhausted.
func classifyAPIError(err error) error {
	if errors.Is(err, ErrSourceEmpty) || errors.Is(err, ErrSourceUnavailable) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 404 {
			return ErrSourceEmpty
		}
		return fmt.Errorf("%w: status %d", ErrSourceUnavailable, apiErr.Code)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}

// apiErrorClassifier determines if a Data API error is worth retrying at the
// transport level.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSourceEmpty) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	return true
}
