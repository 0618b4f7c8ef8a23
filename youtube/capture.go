package youtube

import (
	"context"
	"fmt"
	"net/url"

	ythttp "ytexport/http"
)

// ScreenshotCapturer implements ImageCapturer against an external,
// credentialed page-capture service that renders the watch page and returns
// real screenshot bytes.
type ScreenshotCapturer struct {
	client   *ythttp.Client
	endpoint string
	token    string
}

// NewScreenshotCapturer creates a capturer for the given capture service
// endpoint. Both endpoint and token are required; without them the pipeline
// falls back to the thumbnail compositor or skips capture entirely.
func NewScreenshotCapturer(client *ythttp.Client, endpoint, token string) (*ScreenshotCapturer, error) {
	if endpoint == "" || token == "" {
		return nil, fmt.Errorf("capture endpoint and token required")
	}
	return &ScreenshotCapturer{client: client, endpoint: endpoint, token: token}, nil
}

// Capture requests a rendered screenshot of the record's watch page.
func (c *ScreenshotCapturer) Capture(ctx context.Context, record VideoRecord) (*CapturedImage, error) {
	captureURL := fmt.Sprintf("%s?access_key=%s&url=%s",
		c.endpoint, url.QueryEscape(c.token), url.QueryEscape(record.WatchURL()))

	resp, err := c.client.Get(ctx, captureURL)
	if err != nil {
		return nil, &SourceError{Source: "capture", ID: record.ID, Err: err}
	}
	if len(resp.Body) == 0 {
		return nil, &SourceError{Source: "capture", ID: record.ID, Err: ErrSourceEmpty}
	}

	return &CapturedImage{ForID: record.ID, Data: resp.Body}, nil
}

// ThumbnailCompositor implements ImageCapturer by fetching the video
// thumbnail and compositing a self-documenting evidence image: the thumbnail
// plus an overlay panel carrying title, canonical URL, counts, and publish
// date. This is a synthesized image, not a page capture; the two strategies
// stay behind the one interface but never share a code path.
type ThumbnailCompositor struct {
	client *ythttp.Client
}

// NewThumbnailCompositor creates the fallback-mode compositor.
func NewThumbnailCompositor(client *ythttp.Client) *ThumbnailCompositor {
	return &ThumbnailCompositor{client: client}
}

// Capture fetches the thumbnail and composes the evidence image.
func (c *ThumbnailCompositor) Capture(ctx context.Context, record VideoRecord) (*CapturedImage, error) {
	resp, err := c.client.Get(ctx, record.ThumbnailURL())
	if err != nil {
		return nil, &SourceError{Source: "capture", ID: record.ID, Err: err}
	}

	composed, err := composeEvidenceImage(resp.Body, record)
	if err != nil {
		return nil, &SourceError{Source: "capture", ID: record.ID, Err: err}
	}

	return &CapturedImage{ForID: record.ID, Data: composed}, nil
}
