package youtube

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Evidence image geometry. All captured images share this box so the
// document renderer can lay them out without per-image measurement.
const (
	evidenceWidth   = 640
	evidenceHeight  = 360
	panelHeight     = 96
	panelPadding    = 8
	panelLineHeight = 18
)

var (
	panelBackground = color.RGBA{R: 16, G: 16, B: 16, A: 235}
	panelText       = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	canvasFill      = color.RGBA{R: 32, G: 32, B: 32, A: 255}
)

// composeEvidenceImage scales the thumbnail onto a fixed canvas and draws an
// overlay panel with the record's metadata, so the image documents what was
// extracted even when viewed on its own.
func composeEvidenceImage(thumbnail []byte, record VideoRecord) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(thumbnail))
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, evidenceWidth, evidenceHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(canvasFill), image.Point{}, draw.Src)

	// Thumbnail goes above the panel, scaled to fit.
	thumbBox := image.Rect(0, 0, evidenceWidth, evidenceHeight-panelHeight)
	xdraw.ApproxBiLinear.Scale(canvas, thumbBox, src, src.Bounds(), xdraw.Over, nil)

	panelBox := image.Rect(0, evidenceHeight-panelHeight, evidenceWidth, evidenceHeight)
	draw.Draw(canvas, panelBox, image.NewUniform(panelBackground), image.Point{}, draw.Over)

	lines := []string{
		truncateLine(record.Title, 88),
		record.WatchURL(),
		fmt.Sprintf("Views: %d   Likes: %d   Duration: %s",
			record.ViewCount, record.LikeCount, record.DurationDisplay()),
		"Published: " + record.PublishedAt.Format("2006-01-02"),
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(panelText),
		Face: basicfont.Face7x13,
	}
	y := panelBox.Min.Y + panelPadding + 10
	for _, line := range lines {
		drawer.Dot = fixed.P(panelPadding, y)
		drawer.DrawString(line)
		y += panelLineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode evidence image: %w", err)
	}
	return buf.Bytes(), nil
}

// truncateLine keeps overlay text inside the panel width.
func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
