package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeMeta struct {
	ids        []string
	listErr    error
	snippetErr map[string]error
	listCalls  int
}

func (f *fakeMeta) ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *fakeMeta) LookupSnippet(ctx context.Context, videoID string) (*Snippet, error) {
	if err := f.snippetErr[videoID]; err != nil {
		return nil, err
	}
	return &Snippet{
		Title:       "Video " + videoID,
		PublishedAt: time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeMeta) LookupContentDetails(ctx context.Context, videoID string) (string, error) {
	return "PT1M30S", nil
}

func (f *fakeMeta) LookupStatistics(ctx context.Context, videoID string) (*Statistics, error) {
	return &Statistics{ViewCount: 1000, LikeCount: 100}, nil
}

type fakePages struct {
	ids       []string
	listErr   error
	listCalls int
}

func (f *fakePages) ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *fakePages) FetchItemFields(ctx context.Context, videoID string) (*PageFields, error) {
	return &PageFields{
		Title:        "Scraped " + videoID,
		ViewsText:    "1.2K views",
		LikesText:    "34",
		DurationText: "3:33",
		DateText:     "2024-02-01",
	}, nil
}

type fakeCapturer struct {
	calls int
	err   error
}

func (f *fakeCapturer) Capture(ctx context.Context, record VideoRecord) (*CapturedImage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &CapturedImage{ForID: record.ID, Data: []byte{0x89}}, nil
}

func collectProgress(events *[]Progress) ProgressFunc {
	return func(p Progress) { *events = append(*events, p) }
}

func checkMonotonic(t *testing.T, events []Progress) {
	t.Helper()
	last := -1.0
	for i, e := range events {
		if e.FractionComplete < last {
			t.Fatalf("progress went backward at event %d: %.2f after %.2f (%q)",
				i, e.FractionComplete, last, e.Message)
		}
		last = e.FractionComplete
	}
	if len(events) == 0 || events[len(events)-1].FractionComplete != 100 {
		t.Fatalf("final progress event is not 100: %+v", events)
	}
}

func TestExtractPrimary(t *testing.T) {
	ids := []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}
	meta := &fakeMeta{ids: ids}
	pages := &fakePages{}
	capt := &fakeCapturer{}

	p, err := NewPipeline(PipelineConfig{Metadata: meta, Pages: pages, PrimaryCapture: capt})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	var events []Progress
	run, err := p.Extract(context.Background(), "PLtest", collectProgress(&events))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(run.Records) != len(ids) {
		t.Fatalf("expected %d records, got %d", len(ids), len(run.Records))
	}
	if len(run.Images) != len(run.Records) {
		t.Fatalf("images not aligned with records: %d vs %d", len(run.Images), len(run.Records))
	}
	for i, rec := range run.Records {
		if rec.ID != ids[i] {
			t.Errorf("record %d out of order: got %s, want %s", i, rec.ID, ids[i])
		}
		if rec.Title != "Video "+ids[i] {
			t.Errorf("record %d title: %q", i, rec.Title)
		}
		if rec.DurationSeconds != 90 {
			t.Errorf("record %d duration: %d", i, rec.DurationSeconds)
		}
		if rec.UsedFallbackData {
			t.Errorf("record %d unexpectedly marked as fallback data", i)
		}
	}
	if run.UsedFallbackSource {
		t.Error("primary run marked as fallback source")
	}
	if run.TotalDurationSeconds != 3*90 {
		t.Errorf("total duration: got %d, want %d", run.TotalDurationSeconds, 3*90)
	}
	if run.ID == "" {
		t.Error("run ID is empty")
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Error("FinishedAt before StartedAt")
	}
	if capt.calls != len(ids) {
		t.Errorf("capture calls: got %d, want %d", capt.calls, len(ids))
	}
	if pages.listCalls != 0 {
		t.Errorf("page source consulted during clean primary run: %d calls", pages.listCalls)
	}
	checkMonotonic(t, events)
}

func TestExtractFallbackRestart(t *testing.T) {
	ids := []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd", "eeeeeeeeeee"}
	meta := &fakeMeta{
		ids: ids,
		snippetErr: map[string]error{
			"ccccccccccc": &SourceError{Source: "api", ID: "ccccccccccc", Err: ErrSourceUnavailable},
		},
	}
	pages := &fakePages{ids: ids}

	p, err := NewPipeline(PipelineConfig{Metadata: meta, Pages: pages})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	var events []Progress
	run, err := p.Extract(context.Background(), "PLtest", collectProgress(&events))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !run.UsedFallbackSource {
		t.Error("run not marked as fallback source after restart")
	}
	if len(run.Records) != len(ids) {
		t.Fatalf("partial run leaked: got %d records, want %d", len(run.Records), len(ids))
	}
	for i, rec := range run.Records {
		if rec.ID != ids[i] {
			t.Errorf("record %d out of order after restart: got %s, want %s", i, rec.ID, ids[i])
		}
		if rec.Title != "Scraped "+ids[i] {
			t.Errorf("record %d carries primary data after restart: %q", i, rec.Title)
		}
	}
	if pages.listCalls != 1 {
		t.Errorf("fallback listing calls: got %d, want 1", pages.listCalls)
	}
	checkMonotonic(t, events)
}

func TestExtractFallbackFailureIsFatal(t *testing.T) {
	meta := &fakeMeta{listErr: &SourceError{Source: "api", ID: "PLtest", Err: ErrSourceUnavailable}}
	pages := &fakePages{listErr: &SourceError{Source: "watchpage", ID: "PLtest", Err: ErrSourceUnavailable}}

	p, _ := NewPipeline(PipelineConfig{Metadata: meta, Pages: pages})
	_, err := p.Extract(context.Background(), "PLtest", nil)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if meta.listCalls != 1 || pages.listCalls != 1 {
		t.Errorf("expected exactly one attempt per mode, got %d primary and %d fallback",
			meta.listCalls, pages.listCalls)
	}
}

func TestExtractEmptyPlaylist(t *testing.T) {
	meta := &fakeMeta{}
	pages := &fakePages{}

	p, _ := NewPipeline(PipelineConfig{Metadata: meta, Pages: pages})
	_, err := p.Extract(context.Background(), "PLempty", nil)
	if !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist, got %v", err)
	}
	if pages.listCalls != 0 {
		t.Error("empty playlist triggered a fallback restart")
	}
}

func TestExtractFallbackEmptyListing(t *testing.T) {
	pages := &fakePages{listErr: &SourceError{Source: "watchpage", ID: "PLempty", Err: ErrSourceEmpty}}

	p, _ := NewPipeline(PipelineConfig{Pages: pages})
	_, err := p.Extract(context.Background(), "PLempty", nil)
	if !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist, got %v", err)
	}
}

func TestExtractWithoutCredentialUsesFallback(t *testing.T) {
	pages := &fakePages{ids: []string{"aaaaaaaaaaa"}}

	p, _ := NewPipeline(PipelineConfig{Pages: pages})
	run, err := p.Extract(context.Background(), "PLtest", nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !run.UsedFallbackSource {
		t.Error("credential-less run not marked as fallback source")
	}
	if run.Records[0].Title != "Scraped aaaaaaaaaaa" {
		t.Errorf("unexpected record: %+v", run.Records[0])
	}
}

func TestExtractSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	meta := &blockingMeta{release: release, started: started}
	pages := &fakePages{}

	p, _ := NewPipeline(PipelineConfig{Metadata: meta, Pages: pages})

	done := make(chan error, 1)
	go func() {
		_, err := p.Extract(context.Background(), "PLtest", nil)
		done <- err
	}()

	<-started
	if _, err := p.Extract(context.Background(), "PLtest", nil); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// The lock is released once the first run finishes.
	if _, err := p.Extract(context.Background(), "PLtest", nil); err != nil {
		t.Fatalf("follow-up run failed: %v", err)
	}
}

type blockingMeta struct {
	fakeMeta
	release <-chan struct{}
	started chan struct{}
	once    bool
}

func (b *blockingMeta) ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	if !b.once {
		b.once = true
		close(b.started)
		<-b.release
	}
	return []string{"aaaaaaaaaaa"}, nil
}

func TestExtractCancellation(t *testing.T) {
	ids := []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}
	meta := &fakeMeta{ids: ids}
	pages := &fakePages{ids: ids}

	p, _ := NewPipeline(PipelineConfig{Metadata: meta, Pages: pages})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := p.Extract(ctx, "PLtest", func(pr Progress) {
		if pr.ProcessedCount == 1 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if pages.listCalls != 0 {
		t.Error("cancellation triggered a fallback restart")
	}
}

func TestProgressSchedule(t *testing.T) {
	ids := make([]string, 4)
	for i := range ids {
		ids[i] = fmt.Sprintf("vid%08d", i)
	}
	meta := &fakeMeta{ids: ids}

	p, _ := NewPipeline(PipelineConfig{Metadata: meta, Pages: &fakePages{}})

	var events []Progress
	if _, err := p.Extract(context.Background(), "PLtest", collectProgress(&events)); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	var sawListing bool
	for _, e := range events {
		if e.FractionComplete == 10 && e.TotalCount == len(ids) {
			sawListing = true
		}
		if e.ProcessedCount > 0 && e.ProcessedCount < e.TotalCount {
			if e.FractionComplete <= 10 || e.FractionComplete >= 90 {
				t.Errorf("per-item event outside 10-90 band: %+v", e)
			}
		}
	}
	if !sawListing {
		t.Error("no listing-complete event at 10%")
	}
}
