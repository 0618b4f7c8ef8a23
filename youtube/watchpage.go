package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	ythttp "ytexport/http"
)

// RulesVersion identifies the structural extraction rule set below. The page
// layout is not a stable contract; when selectors rot, bump this and update
// extractionRules in one place.
const RulesVersion = "2025-07"

// extractionRules documents where each field lives on a watch page. Fields
// are tried in order; the first non-empty match wins.
type extractionRules struct {
	TitleSelectors    []string
	ViewsSelectors    []string
	DateSelectors     []string
	DurationSelectors []string
	// LikesPatterns are applied to the raw page, since the like count only
	// appears inside embedded JSON.
	LikesPatterns []*regexp.Regexp
	// PlaylistItemPattern extracts video IDs from a playlist page's
	// embedded JSON, in document order.
	PlaylistItemPattern *regexp.Regexp
}

func defaultExtractionRules() extractionRules {
	return extractionRules{
		TitleSelectors: []string{
			`meta[property="og:title"]`,
			`meta[name="title"]`,
		},
		ViewsSelectors: []string{
			`meta[itemprop="interactionCount"]`,
		},
		DateSelectors: []string{
			`meta[itemprop="datePublished"]`,
			`meta[itemprop="uploadDate"]`,
		},
		DurationSelectors: []string{
			`meta[itemprop="duration"]`,
		},
		LikesPatterns: []*regexp.Regexp{
			regexp.MustCompile(`"likeCount"\s*:\s*"?(\d+)`),
			regexp.MustCompile(`([\d.,]+[KMB]?) likes"`),
		},
		PlaylistItemPattern: regexp.MustCompile(`"videoId"\s*:\s*"([\w-]{11})"`),
	}
}

// WatchPageSource implements PageSource by fetching public playlist and
// watch pages and applying the structural extraction rules. Extraction is
// best-effort: missing fields come back empty and the Resolver applies
// defaults.
type WatchPageSource struct {
	client *ythttp.Client
	rules  extractionRules
}

// NewWatchPageSource creates a page-scraping source on top of the given HTTP
// client.
func NewWatchPageSource(client *ythttp.Client) *WatchPageSource {
	return &WatchPageSource{
		client: client,
		rules:  defaultExtractionRules(),
	}
}

// pageHeaders pins the language so localized fields have a known shape.
var pageHeaders = map[string]string{
	"Accept-Language": "en-US,en;q=0.9",
	"Accept":          "text/html,application/xhtml+xml",
}

// ListPlaylistItems fetches the playlist page and extracts video IDs in
// document order.
func (s *WatchPageSource) ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	url := "https://www.youtube.com/playlist?list=" + playlistID

	resp, err := s.client.Do(ctx, "GET", url, nil, pageHeaders)
	if err != nil {
		return nil, &SourceError{Source: "watchpage", ID: playlistID, Err: wrapTransportError(err)}
	}

	ids := s.extractPlaylistIDs(resp.Body)
	if len(ids) == 0 {
		return nil, &SourceError{Source: "watchpage", ID: playlistID, Err: ErrSourceEmpty}
	}

	log.Printf("youtube: watchpage listed %d playlist items for %s (rules %s)", len(ids), playlistID, RulesVersion)
	return ids, nil
}

// extractPlaylistIDs pulls video IDs out of a playlist page in document
// order, deduplicated. The embedded JSON repeats each ID several times.
func (s *WatchPageSource) extractPlaylistIDs(page []byte) []string {
	matches := s.rules.PlaylistItemPattern.FindAllSubmatch(page, -1)
	seen := make(map[string]bool)
	var ids []string
	for _, m := range matches {
		id := string(m[1])
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// FetchItemFields renders one watch page and extracts the known field
// locations per the rule set.
func (s *WatchPageSource) FetchItemFields(ctx context.Context, videoID string) (*PageFields, error) {
	url := "https://www.youtube.com/watch?v=" + videoID

	resp, err := s.client.Do(ctx, "GET", url, nil, pageHeaders)
	if err != nil {
		return nil, &SourceError{Source: "watchpage", ID: videoID, Err: wrapTransportError(err)}
	}

	return s.extractFields(resp.Body), nil
}

// extractFields applies the rule set to raw page HTML. Never fails: fields
// that cannot be located stay empty.
func (s *WatchPageSource) extractFields(page []byte) *PageFields {
	fields := &PageFields{}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err == nil {
		fields.Title = firstMeta(doc, s.rules.TitleSelectors)
		fields.ViewsText = firstMeta(doc, s.rules.ViewsSelectors)
		fields.DateText = firstMeta(doc, s.rules.DateSelectors)
		fields.DurationText = firstMeta(doc, s.rules.DurationSelectors)
	}

	for _, pattern := range s.rules.LikesPatterns {
		if m := pattern.FindSubmatch(page); m != nil {
			fields.LikesText = string(m[1])
			break
		}
	}

	return fields
}

// firstMeta returns the content attribute of the first selector that
// matches with a non-empty value.
func firstMeta(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if v := strings.TrimSpace(doc.Find(sel).AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}

// wrapTransportError folds HTTP-layer failures into the extraction error
// taxonomy.
func wrapTransportError(err error) error {
	var httpErr *ythttp.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == 404 {
		return ErrSourceEmpty
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}
