package youtube

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubPages struct {
	fields map[string]*PageFields
	err    error
}

func (s *stubPages) ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	return nil, errors.New("not used")
}

func (s *stubPages) FetchItemFields(ctx context.Context, videoID string) (*PageFields, error) {
	if s.err != nil {
		return nil, s.err
	}
	if f, ok := s.fields[videoID]; ok {
		return f, nil
	}
	return &PageFields{}, nil
}

func TestResolvePrimaryMapping(t *testing.T) {
	meta := &fakeMeta{}
	r := NewResolver(meta, &stubPages{}, nil, 1)

	record, image, err := r.Resolve(context.Background(), "aaaaaaaaaaa", ModePrimary)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if image != nil {
		t.Error("expected nil image without a capturer")
	}
	if record.Title != "Video aaaaaaaaaaa" {
		t.Errorf("title: %q", record.Title)
	}
	if record.DurationSeconds != 90 {
		t.Errorf("duration: %d", record.DurationSeconds)
	}
	if record.ViewCount != 1000 || record.LikeCount != 100 {
		t.Errorf("counts: views=%d likes=%d", record.ViewCount, record.LikeCount)
	}
	want := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	if !record.PublishedAt.Equal(want) {
		t.Errorf("published: %v", record.PublishedAt)
	}
	if record.UsedFallbackData {
		t.Error("primary record marked as fallback data")
	}
}

func TestResolvePrimaryLookupError(t *testing.T) {
	meta := &fakeMeta{snippetErr: map[string]error{
		"aaaaaaaaaaa": &SourceError{Source: "api", ID: "aaaaaaaaaaa", Err: ErrSourceUnavailable},
	}}
	r := NewResolver(meta, &stubPages{}, nil, 1)

	_, _, err := r.Resolve(context.Background(), "aaaaaaaaaaa", ModePrimary)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestResolveFallbackFieldParsing(t *testing.T) {
	pages := &stubPages{fields: map[string]*PageFields{
		"aaaaaaaaaaa": {
			Title:        "A Field Test",
			ViewsText:    "1.2K views",
			LikesText:    "4,567",
			DurationText: "3:33",
			DateText:     "2024-03-01",
		},
	}}
	r := NewResolver(nil, pages, nil, 1)

	record, _, err := r.Resolve(context.Background(), "aaaaaaaaaaa", ModeFallback)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if record.Title != "A Field Test" {
		t.Errorf("title: %q", record.Title)
	}
	if record.ViewCount != 1200 {
		t.Errorf("views: %d", record.ViewCount)
	}
	if record.LikeCount != 4567 {
		t.Errorf("likes: %d", record.LikeCount)
	}
	if record.DurationSeconds != 213 {
		t.Errorf("duration: %d", record.DurationSeconds)
	}
	if record.DurationDisplay() != "3:33" {
		t.Errorf("duration display: %q", record.DurationDisplay())
	}
	if record.PublishedAt.Year() != 2024 || record.PublishedAt.Month() != time.March {
		t.Errorf("published: %v", record.PublishedAt)
	}
	if record.UsedFallbackData {
		t.Error("scraped record marked as fallback data")
	}
}

func TestResolveFallbackISODuration(t *testing.T) {
	pages := &stubPages{fields: map[string]*PageFields{
		"aaaaaaaaaaa": {Title: "ISO", DurationText: "PT1H2M3S"},
	}}
	r := NewResolver(nil, pages, nil, 1)

	record, _, err := r.Resolve(context.Background(), "aaaaaaaaaaa", ModeFallback)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if record.DurationSeconds != 3723 {
		t.Errorf("duration: %d", record.DurationSeconds)
	}
}

func TestResolveFallbackDemoSubstitution(t *testing.T) {
	// Empty fields for a well-known ID: the fixed demo record replaces the
	// whole record and is flagged.
	r := NewResolver(nil, &stubPages{}, nil, 1)

	record, _, err := r.Resolve(context.Background(), "dQw4w9WgXcQ", ModeFallback)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !record.UsedFallbackData {
		t.Error("demo record not flagged")
	}
	if record.DurationSeconds != 213 {
		t.Errorf("demo duration: %d", record.DurationSeconds)
	}
	if record.Title == placeholderTitle || record.Title == "" {
		t.Errorf("demo title not substituted: %q", record.Title)
	}
}

func TestResolveFallbackGeneratedDemoReproducibleWithinRun(t *testing.T) {
	r := NewResolver(nil, &stubPages{}, nil, 42)

	first, _, err := r.Resolve(context.Background(), "zzzzzzzzzzz", ModeFallback)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, _, err := r.Resolve(context.Background(), "zzzzzzzzzzz", ModeFallback)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !first.UsedFallbackData || !second.UsedFallbackData {
		t.Error("generated records not flagged")
	}
	if first.DurationSeconds != second.DurationSeconds || first.ViewCount != second.ViewCount {
		t.Errorf("generated record not stable within a run: %+v vs %+v", first, second)
	}
}

func TestResolveCaptureFailureNonFatal(t *testing.T) {
	meta := &fakeMeta{}
	capt := &fakeCapturer{err: errors.New("capture service down")}
	r := NewResolver(meta, &stubPages{}, capt, 1)

	record, image, err := r.Resolve(context.Background(), "aaaaaaaaaaa", ModePrimary)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if image != nil {
		t.Error("expected nil image on capture failure")
	}
	if record.ID != "aaaaaaaaaaa" {
		t.Errorf("record lost on capture failure: %+v", record)
	}
	if capt.calls != 1 {
		t.Errorf("capture calls: %d", capt.calls)
	}
}

func TestResolveCaptureSuccess(t *testing.T) {
	capt := &fakeCapturer{}
	r := NewResolver(&fakeMeta{}, &stubPages{}, capt, 1)

	_, image, err := r.Resolve(context.Background(), "aaaaaaaaaaa", ModePrimary)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if image == nil || image.ForID != "aaaaaaaaaaa" {
		t.Fatalf("image: %+v", image)
	}
}
