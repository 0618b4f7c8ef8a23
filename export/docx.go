package export

import (
	"bytes"
	"fmt"
	"log"

	"github.com/fumiama/go-docx"

	"ytexport/youtube"
)

// sectionLines are the field lines under each per-video heading, shared by
// the document and HTML tiers.
func sectionLines(rec youtube.VideoRecord) []string {
	lines := []string{
		"URL: " + rec.WatchURL(),
		"Duration: " + rec.DurationDisplay(),
		"Views: " + formatCount(rec.ViewCount),
		"Likes: " + formatCount(rec.LikeCount),
		"Published: " + rec.PublishedAt.Format("2006-01-02"),
	}
	if rec.UsedFallbackData {
		lines = append(lines, "Note: demo data, extraction returned no usable metadata")
	}
	return lines
}

func sectionHeading(n int, rec youtube.VideoRecord) string {
	return fmt.Sprintf("Video %d: %s", n, rec.Title)
}

// docxEncoder is the stock rich-document tier: one video per page. The word
// library reports little through error returns, so a recover guard folds any
// panic into ErrEncoderUnavailable and the renderer degrades to the HTML
// tier.
type docxEncoder struct {
	style Style
}

func (e *docxEncoder) EncodeDocument(run *youtube.ExtractionRun, secs []Section) (data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: docx encode: %v", ErrEncoderUnavailable, p)
		}
	}()

	titleSize := halfPoints(e.style.TitleSize)
	bodySize := halfPoints(e.style.BodySize)

	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Playlist " + run.PlaylistID).Size(titleSize).Bold()
	doc.AddParagraph().AddText(fmt.Sprintf("%d videos, total duration %s",
		len(run.Records), run.DurationDisplay())).Size(bodySize)

	for i, sec := range secs {
		doc.AddParagraph().AddText(sectionHeading(i+1, sec.Record)).Size(titleSize).Bold()
		for _, line := range sectionLines(sec.Record) {
			doc.AddParagraph().AddText(line).Size(bodySize)
		}

		// Image embedding is best-effort; a single undecodable image does
		// not cost the whole tier.
		if sec.Image != nil && len(sec.Image.Data) > 0 {
			if _, err := doc.AddParagraph().AddInlineDrawing(sec.Image.Data); err != nil {
				log.Printf("export: skipping docx image for %s: %v", sec.Record.ID, err)
			}
		}

		// Page break between videos, not after the last one.
		if i < len(secs)-1 {
			doc.AddParagraph().AddPageBreaks()
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: docx write: %v", ErrEncoderUnavailable, err)
	}
	return buf.Bytes(), nil
}

// halfPoints converts a point size to the half-point string the word format
// expects.
func halfPoints(points int) string {
	return fmt.Sprintf("%d", points*2)
}
