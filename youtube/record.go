// Package youtube implements the two-path metadata extraction pipeline:
// playlist enumeration, per-video record resolution through a primary
// credentialed source with a scraping fallback, and best-effort image
// capture.
package youtube

import (
	"time"

	"ytexport/normalize"
)

// VideoRecord is the normalized metadata for one playlist entry. Records are
// created once by the Resolver and never mutated after they are appended to
// an ExtractionRun.
type VideoRecord struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Title is the video title. Never empty: unresolved titles fall back
	// to a placeholder before demo substitution kicks in.
	Title string `json:"title"`

	// DurationSeconds is the canonical duration. Non-negative.
	DurationSeconds int `json:"duration_seconds"`

	// ViewCount is the number of views. Zero when unavailable.
	ViewCount int64 `json:"view_count"`

	// LikeCount is the number of likes. Zero when unavailable.
	LikeCount int64 `json:"like_count"`

	// PublishedAt is the publish timestamp, normalized to UTC regardless
	// of which source produced it.
	PublishedAt time.Time `json:"published_at"`

	// UsedFallbackData marks records whose content was substituted from
	// the deterministic demo table because extraction produced nothing
	// usable. Callers must be able to distinguish fabricated from real
	// data.
	UsedFallbackData bool `json:"used_fallback_data,omitempty"`
}

// DurationDisplay renders the duration as "H:MM:SS" or "M:SS". It is always
// derived from DurationSeconds, never stored.
func (r VideoRecord) DurationDisplay() string {
	return normalize.FormatDuration(r.DurationSeconds)
}

// WatchURL returns the canonical watch URL for this video.
func (r VideoRecord) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + r.ID
}

// ThumbnailURL returns the stock thumbnail URL for this video, used by the
// plain-document renderer when no captured image exists.
func (r VideoRecord) ThumbnailURL() string {
	return "https://i.ytimg.com/vi/" + r.ID + "/hqdefault.jpg"
}

// CapturedImage is the optional evidence image captured alongside a record.
// Exactly one of Data or URL is set, depending on which capture path
// produced it.
type CapturedImage struct {
	// ForID is the ID of the owning VideoRecord. Lookup only; the run's
	// positional pairing is authoritative.
	ForID string `json:"for_id"`

	// Data holds inline encoded image bytes (PNG) when the image was
	// composited locally.
	Data []byte `json:"-"`

	// URL is a fetchable reference when a capture service produced the
	// image remotely.
	URL string `json:"url,omitempty"`
}

// ExtractionRun is the aggregate produced by one Pipeline.Extract call. It
// is exclusively owned by that call and never shared across runs.
type ExtractionRun struct {
	// ID uniquely identifies this run, for log correlation.
	ID string `json:"id"`

	// PlaylistID is the playlist this run extracted.
	PlaylistID string `json:"playlist_id"`

	// Records are the resolved entries in playlist order.
	Records []VideoRecord `json:"records"`

	// Images is position-aligned with Records; a nil slot means capture
	// was skipped or failed for that entry.
	Images []*CapturedImage `json:"-"`

	// TotalDurationSeconds is the sum of all record durations, computed
	// during finalization.
	TotalDurationSeconds int `json:"total_duration_seconds"`

	// UsedFallbackSource is true when the run was produced (entirely) by
	// the scraping fallback rather than the primary API.
	UsedFallbackSource bool `json:"used_fallback_source"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// DurationDisplay renders the run's total duration in clock form.
func (run *ExtractionRun) DurationDisplay() string {
	return normalize.FormatDuration(run.TotalDurationSeconds)
}

// FallbackDataIDs returns the IDs of records whose content was fabricated
// from the demo table, so callers can surface them.
func (run *ExtractionRun) FallbackDataIDs() []string {
	var ids []string
	for _, rec := range run.Records {
		if rec.UsedFallbackData {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// Progress is one progress event emitted by the Pipeline.
type Progress struct {
	// FractionComplete is 0-100. Successive events within one run are
	// nondecreasing and the final event of a successful run is exactly
	// 100.
	FractionComplete float64

	// Message is a short human-readable status line.
	Message string

	// ProcessedCount and TotalCount describe the per-item loop.
	ProcessedCount int
	TotalCount     int

	// CurrentTitle is the title of the most recently resolved video, when
	// known.
	CurrentTitle string
}

// ProgressFunc receives progress events. It is called synchronously from the
// extraction loop; implementations should return quickly.
type ProgressFunc func(Progress)
