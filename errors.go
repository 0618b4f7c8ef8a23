package ytexport

import (
	"ytexport/export"
	"ytexport/retry"
	"ytexport/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytexport.ErrEmptyPlaylist) {
//		fmt.Println("Playlist has no videos")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var srcErr *ytexport.SourceError
//	if errors.As(err, &srcErr) {
//		fmt.Printf("%s failed for %s: %v\n", srcErr.Source, srcErr.ID, srcErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// SourceError wraps errors from a metadata or page source.
	SourceError = youtube.SourceError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrSourceUnavailable indicates a source could not be reached.
	ErrSourceUnavailable = youtube.ErrSourceUnavailable
	// ErrSourceEmpty indicates a source responded with no usable data.
	ErrSourceEmpty = youtube.ErrSourceEmpty
	// ErrEmptyPlaylist indicates the playlist contains no videos.
	ErrEmptyPlaylist = youtube.ErrEmptyPlaylist
	// ErrRunInProgress indicates an extraction run is already active.
	ErrRunInProgress = youtube.ErrRunInProgress

	// Export errors
	// ErrEmptyInput indicates there were no records to render.
	ErrEmptyInput = export.ErrEmptyInput
	// ErrEncoderUnavailable indicates an encoder tier failed.
	ErrEncoderUnavailable = export.ErrEncoderUnavailable
)

// IsRetryable determines if an error should be retried.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
