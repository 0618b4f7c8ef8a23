package export

import (
	"log"
	"strconv"
	"time"

	"ytexport/youtube"
)

// SpreadsheetEncoder is the primary tabular tier. A nil or failing encoder
// degrades ToTabular to CSV.
type SpreadsheetEncoder interface {
	EncodeSheet(run *youtube.ExtractionRun, rows [][]string) ([]byte, error)
}

// DocumentEncoder is the primary rich-document tier. A nil or failing
// encoder degrades ToRichDocument to the HTML floor.
type DocumentEncoder interface {
	EncodeDocument(run *youtube.ExtractionRun, sections []Section) ([]byte, error)
}

// Renderer turns extraction runs into artifacts. It is stateless and safe
// for concurrent use.
type Renderer struct {
	// Sheet and Document hold the primary-tier encoders. NewRenderer
	// installs the stock ones; tests and embedders may replace or nil them
	// to force the degraded tiers.
	Sheet    SpreadsheetEncoder
	Document DocumentEncoder

	style Style
	now   func() time.Time
}

// NewRenderer creates a renderer with the given style and the stock encoder
// tiers. Zero style fields take their defaults.
func NewRenderer(style Style) *Renderer {
	style = style.withDefaults()
	return &Renderer{
		Sheet:    &xlsxEncoder{style: style},
		Document: &docxEncoder{style: style},
		style:    style,
		now:      time.Now,
	}
}

// tableHeader names the tabular columns, shared by the sheet and CSV tiers
// so a degraded artifact carries the same data.
var tableHeader = []string{"Title", "Duration", "Views", "Likes", "URL", "Published"}

// tableRows flattens the run into display rows in record order.
func tableRows(run *youtube.ExtractionRun) [][]string {
	rows := make([][]string, 0, len(run.Records))
	for _, rec := range run.Records {
		rows = append(rows, []string{
			rec.Title,
			rec.DurationDisplay(),
			formatCount(rec.ViewCount),
			formatCount(rec.LikeCount),
			rec.WatchURL(),
			rec.PublishedAt.Format("2006-01-02"),
		})
	}
	return rows
}

func formatCount(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Section is one per-video block of a document artifact: the record's field
// lines plus the optional evidence image.
type Section struct {
	Record youtube.VideoRecord
	Image  *youtube.CapturedImage
}

func sections(run *youtube.ExtractionRun) []Section {
	out := make([]Section, 0, len(run.Records))
	for i, rec := range run.Records {
		var img *youtube.CapturedImage
		if i < len(run.Images) {
			img = run.Images[i]
		}
		out = append(out, Section{Record: rec, Image: img})
	}
	return out
}

// ToTabular renders the run as a spreadsheet. The sheet tier is tried
// first; if it is absent or fails, the same rows are re-rendered as CSV.
// The returned artifact's MIMEType reports which tier succeeded.
func (r *Renderer) ToTabular(run *youtube.ExtractionRun) (*Artifact, error) {
	if len(run.Records) == 0 {
		return nil, ErrEmptyInput
	}

	if r.Sheet != nil {
		data, err := r.Sheet.EncodeSheet(run, tableRows(run))
		if err == nil {
			return &Artifact{
				Bytes:             data,
				SuggestedFilename: suggestedName(run.PlaylistID, r.now(), "xlsx"),
				MIMEType:          mimeXLSX,
			}, nil
		}
		log.Printf("export: sheet encoder failed (%v), degrading to csv", err)
	}

	return r.ToCSV(run)
}

// ToCSV renders the tabular data directly as CSV, skipping the sheet tier.
// It is also the degraded tier of ToTabular.
func (r *Renderer) ToCSV(run *youtube.ExtractionRun) (*Artifact, error) {
	if len(run.Records) == 0 {
		return nil, ErrEmptyInput
	}

	data, err := encodeCSV(tableRows(run))
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Bytes:             data,
		SuggestedFilename: suggestedName(run.PlaylistID, r.now(), "csv"),
		MIMEType:          mimeCSV,
	}, nil
}

// ToRichDocument renders the run as a per-video document. The document tier
// is tried first; if it is absent or fails, the same sections are
// re-rendered as the plain HTML report.
func (r *Renderer) ToRichDocument(run *youtube.ExtractionRun) (*Artifact, error) {
	if len(run.Records) == 0 {
		return nil, ErrEmptyInput
	}

	if r.Document != nil {
		data, err := r.Document.EncodeDocument(run, sections(run))
		if err == nil {
			return &Artifact{
				Bytes:             data,
				SuggestedFilename: suggestedName(run.PlaylistID, r.now(), "docx"),
				MIMEType:          mimeDOCX,
			}, nil
		}
		log.Printf("export: document encoder failed (%v), degrading to html", err)
	}

	return r.ToPlainDocument(run)
}

// ToPlainDocument renders the floor tier directly: a standalone HTML report.
// It fails only on empty input.
func (r *Renderer) ToPlainDocument(run *youtube.ExtractionRun) (*Artifact, error) {
	if len(run.Records) == 0 {
		return nil, ErrEmptyInput
	}

	data, err := r.encodeHTML(run, sections(run))
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Bytes:             data,
		SuggestedFilename: suggestedName(run.PlaylistID, r.now(), "html"),
		MIMEType:          mimeHTML,
	}, nil
}
