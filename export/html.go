package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"ytexport/youtube"
)

// reportTemplate is the floor-tier document: a standalone HTML page with the
// same sections the DOCX tier renders. Rendering it cannot fail for a
// non-empty run.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Playlist {{.PlaylistID}}</title>
<style>
body { font-family: sans-serif; max-width: 52em; margin: 2em auto; }
h2 { border-top: 1px solid #ccc; padding-top: 1em; }
img { max-width: {{.ImageWidth}}px; max-height: {{.ImageHeight}}px; }
.demo { color: #a40; }
</style>
</head>
<body>
<h1>Playlist {{.PlaylistID}}</h1>
<p>{{.Count}} videos, total duration {{.TotalDuration}}. Generated {{.GeneratedAt}}.</p>
{{- if .UsedFallbackSource}}
<p class="demo">Produced by the fallback extraction path.</p>
{{- end}}
{{- range .Sections}}
<h2>{{.Heading}}</h2>
{{- if .ImageSrc}}
<p><img src="{{.ImageSrc}}" alt="{{.Title}}"></p>
{{- end}}
<ul>
{{- range .Lines}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`))

type htmlSection struct {
	Heading  string
	Title    string
	Lines    []string
	ImageSrc template.URL
}

type htmlPage struct {
	PlaylistID         string
	Count              int
	TotalDuration      string
	GeneratedAt        string
	UsedFallbackSource bool
	ImageWidth         int
	ImageHeight        int
	Sections           []htmlSection
}

// encodeHTML renders the floor-tier report.
func (r *Renderer) encodeHTML(run *youtube.ExtractionRun, secs []Section) ([]byte, error) {
	page := htmlPage{
		PlaylistID:         run.PlaylistID,
		Count:              len(run.Records),
		TotalDuration:      run.DurationDisplay(),
		GeneratedAt:        r.now().UTC().Format("2006-01-02 15:04 MST"),
		UsedFallbackSource: run.UsedFallbackSource,
		ImageWidth:         r.style.ImageWidth,
		ImageHeight:        r.style.ImageHeight,
	}
	for i, sec := range secs {
		page.Sections = append(page.Sections, htmlSection{
			Heading:  sectionHeading(i+1, sec.Record),
			Title:    sec.Record.Title,
			Lines:    sectionLines(sec.Record),
			ImageSrc: imageSrc(sec),
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("export: html render: %w", err)
	}
	return buf.Bytes(), nil
}

// imageSrc picks the image reference for a section: inline bytes as a data
// URI, a capture-service URL when that is all we have, and the stock
// thumbnail URL when capture was skipped entirely.
func imageSrc(sec Section) template.URL {
	if sec.Image != nil {
		if len(sec.Image.Data) > 0 {
			return template.URL("data:image/png;base64," +
				base64.StdEncoding.EncodeToString(sec.Image.Data))
		}
		if sec.Image.URL != "" {
			return template.URL(sec.Image.URL)
		}
	}
	return template.URL(sec.Record.ThumbnailURL())
}
