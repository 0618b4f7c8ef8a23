// Package export renders a finished extraction run into downloadable
// artifacts. Two logical outputs exist, a tabular sheet and a per-video
// document, and each degrades through encoder tiers: the spreadsheet falls
// back to CSV, the rich document falls back to a plain HTML report. The
// HTML floor cannot fail for any non-empty run.
package export

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for rendering operations.
var (
	// ErrEmptyInput is returned when a run has no records to render.
	ErrEmptyInput = errors.New("export: no records to render")

	// ErrEncoderUnavailable indicates an encoder tier could not produce
	// output. Callers normally never see it: the Renderer degrades to the
	// next tier instead.
	ErrEncoderUnavailable = errors.New("export: encoder unavailable")
)

// MIME types of the supported artifact formats.
const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv; charset=utf-8"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeHTML = "text/html; charset=utf-8"
)

// Artifact is one rendered output, self-describing so callers can save or
// serve it without knowing which encoder tier produced it.
type Artifact struct {
	// Bytes is the complete encoded document.
	Bytes []byte

	// SuggestedFilename carries the extension matching the format actually
	// produced, which may be a degraded tier.
	SuggestedFilename string

	// MIMEType matches SuggestedFilename's extension.
	MIMEType string
}

// Style controls document appearance. Zero values are replaced by
// DefaultStyle's.
type Style struct {
	// TitleSize and BodySize are font sizes in points.
	TitleSize int
	BodySize  int

	// ImageWidth and ImageHeight bound embedded images, in pixels.
	ImageWidth  int
	ImageHeight int
}

// DefaultStyle returns the stock document style.
func DefaultStyle() Style {
	return Style{
		TitleSize:   14,
		BodySize:    11,
		ImageWidth:  480,
		ImageHeight: 270,
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.TitleSize <= 0 {
		s.TitleSize = d.TitleSize
	}
	if s.BodySize <= 0 {
		s.BodySize = d.BodySize
	}
	if s.ImageWidth <= 0 {
		s.ImageWidth = d.ImageWidth
	}
	if s.ImageHeight <= 0 {
		s.ImageHeight = d.ImageHeight
	}
	return s
}

// suggestedName builds a filename from the playlist ID and render time.
func suggestedName(playlistID string, at time.Time, ext string) string {
	if playlistID == "" {
		playlistID = "playlist"
	}
	return fmt.Sprintf("%s-%s.%s", playlistID, at.Format("20060102-150405"), ext)
}
