package youtube

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for extraction operations.
var (
	// ErrSourceUnavailable indicates a transport or status failure from a
	// source collaborator.
	ErrSourceUnavailable = errors.New("youtube: source unavailable")

	// ErrSourceEmpty indicates a well-formed response with no usable data.
	ErrSourceEmpty = errors.New("youtube: source returned no data")

	// ErrEmptyPlaylist indicates the playlist contains no items. Terminal,
	// never retried via fallback.
	ErrEmptyPlaylist = errors.New("youtube: playlist has no videos")

	// ErrRunInProgress is returned when Extract is called while another
	// run is active on the same Pipeline instance.
	ErrRunInProgress = errors.New("youtube: an extraction run is already in progress")
)

// Mode selects which source path the Resolver uses.
type Mode int

const (
	// ModePrimary resolves through the credentialed metadata API.
	ModePrimary Mode = iota
	// ModeFallback resolves through watch-page structural extraction.
	ModeFallback
)

func (m Mode) String() string {
	if m == ModePrimary {
		return "primary"
	}
	return "fallback"
}

// SourceError wraps extraction errors with context about which source and
// video failed.
//
//	var srcErr *youtube.SourceError
//	if errors.As(err, &srcErr) {
//		fmt.Printf("%s failed for %s: %v\n", srcErr.Source, srcErr.ID, srcErr.Err)
//	}
type SourceError struct {
	// Source identifies the collaborator ("api", "watchpage", "capture").
	Source string
	// ID is the video or playlist ID being resolved.
	ID string
	// Err is the underlying error.
	Err error
}

func (e *SourceError) Error() string {
	return "youtube: " + e.Source + " resolving " + e.ID + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// Snippet is the display metadata returned by the primary source's item
// lookup.
type Snippet struct {
	Title       string
	PublishedAt time.Time
}

// Statistics holds the counters returned by the primary source's statistics
// lookup.
type Statistics struct {
	ViewCount int64
	LikeCount int64
}

// MetadataSource is the primary, credentialed structured metadata service.
// Each lookup returns structured data or an error wrapping
// ErrSourceUnavailable / ErrSourceEmpty.
type MetadataSource interface {
	// ListPlaylistItems returns the ordered video IDs of a playlist.
	ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error)

	// LookupSnippet returns title and publish time for one video.
	LookupSnippet(ctx context.Context, videoID string) (*Snippet, error)

	// LookupContentDetails returns the ISO-8601 duration token for one
	// video (e.g. "PT3M33S").
	LookupContentDetails(ctx context.Context, videoID string) (string, error)

	// LookupStatistics returns view and like counts for one video.
	LookupStatistics(ctx context.Context, videoID string) (*Statistics, error)
}

// PageFields are the raw strings structurally extracted from a watch page.
// Extraction is best-effort: any field may be empty, and the Resolver applies
// documented defaults.
type PageFields struct {
	Title        string
	ViewsText    string
	LikesText    string
	DurationText string
	DateText     string
}

// PageSource is the fallback page-rendering source. Extraction applies a
// versioned set of structural rules; see RulesVersion.
type PageSource interface {
	// ListPlaylistItems returns the ordered video IDs extracted from the
	// playlist page.
	ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error)

	// FetchItemFields renders one watch page and extracts the known field
	// locations.
	FetchItemFields(ctx context.Context, videoID string) (*PageFields, error)
}

// ImageCapturer produces the optional evidence image for a record. Capture
// failure is always non-fatal to record resolution.
type ImageCapturer interface {
	Capture(ctx context.Context, record VideoRecord) (*CapturedImage, error)
}
