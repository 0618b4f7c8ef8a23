package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Progress schedule: listing covers 0-10%, the per-item loop 10-90% (linear
// in processed count), finalization 90-100%. Callers may rely on these
// bounds for a monotonic progress bar.
const (
	progressListingDone = 10.0
	progressItemsDone   = 90.0
	progressDone        = 100.0
)

// Pipeline drives a full playlist extraction: enumerate items, resolve each
// in playlist order through the Resolver, aggregate into an ExtractionRun,
// and report progress. One Pipeline instance runs at most one extraction at
// a time.
type Pipeline struct {
	meta            MetadataSource
	pages           PageSource
	primaryCapture  ImageCapturer
	fallbackCapture ImageCapturer
	maxItems        int

	runMu sync.Mutex
}

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	// Metadata is the primary credentialed source. Nil means no credential
	// is configured and every run goes straight to the fallback source.
	Metadata MetadataSource

	// Pages is the fallback scraping source. Required.
	Pages PageSource

	// PrimaryCapture produces images during primary-mode runs (a real
	// page-capture service). Optional.
	PrimaryCapture ImageCapturer

	// FallbackCapture produces images during fallback-mode runs (the
	// thumbnail compositor). Optional.
	FallbackCapture ImageCapturer

	// MaxItems caps how many playlist items are processed. Zero means all.
	MaxItems int
}

// NewPipeline creates a pipeline from the given collaborators.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Pages == nil {
		return nil, fmt.Errorf("page source required")
	}
	return &Pipeline{
		meta:            cfg.Metadata,
		pages:           cfg.Pages,
		primaryCapture:  cfg.PrimaryCapture,
		fallbackCapture: cfg.FallbackCapture,
		maxItems:        cfg.MaxItems,
	}, nil
}

// Extract runs one end-to-end extraction over a playlist. The returned run
// is complete: callers never observe a half-populated run. A second
// concurrent call on the same instance returns ErrRunInProgress.
//
// Source policy: with a primary source configured, the whole playlist is
// attempted in primary mode first; if listing or any per-item resolution
// reports ErrSourceUnavailable or ErrSourceEmpty, the partial result is
// discarded and the run restarts from scratch in fallback mode. At most one
// restart happens per run.
func (p *Pipeline) Extract(ctx context.Context, playlistID string, onProgress ProgressFunc) (*ExtractionRun, error) {
	if !p.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.runMu.Unlock()

	// Collaborator snapshot: the run uses whatever was configured at entry.
	meta, pages := p.meta, p.pages
	primaryCapture, fallbackCapture := p.primaryCapture, p.fallbackCapture

	run := &ExtractionRun{
		ID:         uuid.NewString(),
		PlaylistID: playlistID,
		StartedAt:  time.Now().UTC(),
	}

	emit := newProgressEmitter(onProgress)
	emit(Progress{FractionComplete: 0, Message: "Starting extraction"})

	mode := ModeFallback
	if meta != nil {
		mode = ModePrimary
	}

	records, images, err := p.runOnce(ctx, mode, meta, pages, captureFor(mode, primaryCapture, fallbackCapture), playlistID, emit)
	if err != nil && mode == ModePrimary && isSourceFailure(err) {
		log.Printf("youtube: run %s primary source failed (%v), restarting in fallback mode", run.ID, err)
		emit(Progress{Message: "Primary source failed, retrying with fallback"})
		mode = ModeFallback
		records, images, err = p.runOnce(ctx, mode, meta, pages, captureFor(mode, primaryCapture, fallbackCapture), playlistID, emit)
	}
	if err != nil {
		return nil, err
	}

	emit(Progress{
		FractionComplete: progressItemsDone,
		Message:          "Finalizing",
		ProcessedCount:   len(records),
		TotalCount:       len(records),
	})

	run.Records = records
	run.Images = images
	run.UsedFallbackSource = mode == ModeFallback
	for _, rec := range records {
		run.TotalDurationSeconds += rec.DurationSeconds
	}
	run.FinishedAt = time.Now().UTC()

	emit(Progress{
		FractionComplete: progressDone,
		Message:          fmt.Sprintf("Done: %d videos, total duration %s", len(records), run.DurationDisplay()),
		ProcessedCount:   len(records),
		TotalCount:       len(records),
	})

	log.Printf("youtube: run %s extracted %d records from %s via %s source", run.ID, len(records), playlistID, mode)
	return run, nil
}

// runOnce performs one full listing plus per-item loop in a single mode.
// Any source failure abandons the whole attempt; partial results never leak.
func (p *Pipeline) runOnce(ctx context.Context, mode Mode, meta MetadataSource, pages PageSource, capturer ImageCapturer, playlistID string, emit ProgressFunc) ([]VideoRecord, []*CapturedImage, error) {
	ids, err := p.listItems(ctx, mode, meta, pages, playlistID)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return nil, nil, ErrEmptyPlaylist
	}
	if p.maxItems > 0 && len(ids) > p.maxItems {
		ids = ids[:p.maxItems]
	}

	emit(Progress{
		FractionComplete: progressListingDone,
		Message:          fmt.Sprintf("Found %d videos", len(ids)),
		TotalCount:       len(ids),
	})

	resolver := NewResolver(meta, pages, capturer, time.Now().UnixNano())

	records := make([]VideoRecord, 0, len(ids))
	images := make([]*CapturedImage, 0, len(ids))

	// Strictly sequential: the external calls are rate-sensitive and the
	// progress contract assumes one resolution in flight at a time. The
	// ctx check is the natural cancellation point between items.
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		record, image, err := resolver.Resolve(ctx, id, mode)
		if err != nil {
			return nil, nil, err
		}

		records = append(records, record)
		images = append(images, image)

		fraction := progressListingDone + (progressItemsDone-progressListingDone)*float64(i+1)/float64(len(ids))
		emit(Progress{
			FractionComplete: fraction,
			Message:          fmt.Sprintf("Processed video %d of %d", i+1, len(ids)),
			ProcessedCount:   i + 1,
			TotalCount:       len(ids),
			CurrentTitle:     record.Title,
		})
	}

	return records, images, nil
}

// listItems enumerates the playlist through the mode's source. A successful
// listing with zero items is an empty playlist, which is terminal; a
// fallback-mode listing that extracts nothing is treated the same way.
func (p *Pipeline) listItems(ctx context.Context, mode Mode, meta MetadataSource, pages PageSource, playlistID string) ([]string, error) {
	if mode == ModePrimary {
		return meta.ListPlaylistItems(ctx, playlistID)
	}

	ids, err := pages.ListPlaylistItems(ctx, playlistID)
	if err != nil && errors.Is(err, ErrSourceEmpty) {
		return nil, ErrEmptyPlaylist
	}
	return ids, err
}

// isSourceFailure reports whether an error should trigger the one-time
// fallback restart. Empty playlists and cancellations are terminal.
func isSourceFailure(err error) bool {
	if errors.Is(err, ErrEmptyPlaylist) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrSourceEmpty)
}

// captureFor selects the image strategy for a mode. The two strategies are
// distinct implementations; they are never blended within a run.
func captureFor(mode Mode, primary, fallback ImageCapturer) ImageCapturer {
	if mode == ModePrimary {
		if primary != nil {
			return primary
		}
		return fallback
	}
	return fallback
}

// newProgressEmitter wraps the caller's callback so fractions never move
// backward within a run, including across a fallback restart.
func newProgressEmitter(onProgress ProgressFunc) ProgressFunc {
	var last float64
	return func(p Progress) {
		if p.FractionComplete < last {
			p.FractionComplete = last
		}
		last = p.FractionComplete
		if onProgress != nil {
			onProgress(p)
		}
	}
}
