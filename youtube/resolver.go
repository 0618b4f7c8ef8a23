package youtube

import (
	"context"
	"log"
	"strings"

	"ytexport/normalize"
)

// Resolver produces one normalized VideoRecord (plus optional captured
// image) per video ID, through either the primary or the fallback source.
// A Resolver belongs to a single extraction run; the Pipeline creates a
// fresh one per run so demo substitution stays reproducible within that run.
type Resolver struct {
	meta     MetadataSource
	pages    PageSource
	capturer ImageCapturer
	demo     *demoGenerator
}

// NewResolver creates a resolver. meta may be nil when no primary credential
// is configured; capturer may be nil to skip image capture entirely.
func NewResolver(meta MetadataSource, pages PageSource, capturer ImageCapturer, runSeed int64) *Resolver {
	return &Resolver{
		meta:     meta,
		pages:    pages,
		capturer: capturer,
		demo:     newDemoGenerator(runSeed),
	}
}

// Resolve produces the record for one video. Source errors propagate to the
// Pipeline, which owns the fallback-restart policy; they are never retried
// across modes here. Image capture failure is non-fatal and yields a nil
// image.
func (r *Resolver) Resolve(ctx context.Context, videoID string, mode Mode) (VideoRecord, *CapturedImage, error) {
	var record VideoRecord
	var err error

	switch mode {
	case ModePrimary:
		record, err = r.resolvePrimary(ctx, videoID)
	default:
		record, err = r.resolveFallback(ctx, videoID)
	}
	if err != nil {
		return VideoRecord{}, nil, err
	}

	return record, r.capture(ctx, record), nil
}

// resolvePrimary issues the three structured lookups and maps fields
// directly, with no guessing.
func (r *Resolver) resolvePrimary(ctx context.Context, videoID string) (VideoRecord, error) {
	snippet, err := r.meta.LookupSnippet(ctx, videoID)
	if err != nil {
		return VideoRecord{}, err
	}

	isoDuration, err := r.meta.LookupContentDetails(ctx, videoID)
	if err != nil {
		return VideoRecord{}, err
	}

	stats, err := r.meta.LookupStatistics(ctx, videoID)
	if err != nil {
		return VideoRecord{}, err
	}

	title := snippet.Title
	if strings.TrimSpace(title) == "" {
		title = placeholderTitle
	}

	return VideoRecord{
		ID:              videoID,
		Title:           title,
		DurationSeconds: normalize.ParseISODuration(isoDuration),
		ViewCount:       stats.ViewCount,
		LikeCount:       stats.LikeCount,
		PublishedAt:     snippet.PublishedAt,
	}, nil
}

// resolveFallback extracts fields from the watch page, applying documented
// defaults for anything the rules could not locate. If even the title is
// missing, the whole record is replaced by a deterministic demo record and
// flagged via UsedFallbackData.
func (r *Resolver) resolveFallback(ctx context.Context, videoID string) (VideoRecord, error) {
	fields, err := r.pages.FetchItemFields(ctx, videoID)
	if err != nil {
		return VideoRecord{}, err
	}

	record := VideoRecord{
		ID:          videoID,
		Title:       placeholderTitle,
		PublishedAt: normalize.ParseFlexibleDate(fields.DateText),
		ViewCount:   normalize.ParseAbbreviatedCount(fields.ViewsText),
		LikeCount:   normalize.ParseAbbreviatedCount(fields.LikesText),
	}
	if t := strings.TrimSpace(fields.Title); t != "" {
		record.Title = t
	}

	// Duration may arrive as an ISO token or a clock string.
	if secs := normalize.ParseISODuration(fields.DurationText); secs > 0 {
		record.DurationSeconds = secs
	} else {
		record.DurationSeconds = normalize.ParseClockDuration(fields.DurationText)
	}

	if record.Title == placeholderTitle {
		log.Printf("youtube: extraction empty for %s, substituting demo record", videoID)
		return r.demo.Record(videoID), nil
	}

	return record, nil
}

// capture attempts image capture; failures are logged and swallowed.
func (r *Resolver) capture(ctx context.Context, record VideoRecord) *CapturedImage {
	if r.capturer == nil {
		return nil
	}
	img, err := r.capturer.Capture(ctx, record)
	if err != nil {
		log.Printf("youtube: image capture failed for %s: %v", record.ID, err)
		return nil
	}
	return img
}
