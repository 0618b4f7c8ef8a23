// Package ytexport extracts metadata from YouTube playlists and renders it
// into downloadable artifacts.
//
// It enables programmatic extraction of per-video records (title, duration,
// views, likes, publish date) with optional evidence images, and export to
// spreadsheet and document formats.
//
// Overview
//
// ytexport provides high-level convenience functions for the most common
// operations:
//
//   - Extract: Run one full playlist extraction
//   - ExportAll: Render a finished run into the requested formats
//
// Quick Start
//
// Extract a playlist:
//
//	ctx := context.Background()
//	run, err := ytexport.Extract(ctx, "PLxxxxxxxx", func(p youtube.Progress) {
//		fmt.Printf("%.0f%% %s\n", p.FractionComplete, p.Message)
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d videos, total %s\n", len(run.Records), run.DurationDisplay())
//
// Render artifacts:
//
//	artifacts, err := ytexport.ExportAll(run, []string{"xlsx", "docx"}, export.DefaultStyle())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, a := range artifacts {
//		os.WriteFile(a.SuggestedFilename, a.Bytes, 0o644)
//	}
//
// Extraction runs through a primary credentialed source (the YouTube Data
// API) when an API key is configured, and degrades to structural extraction
// of public watch pages otherwise. A failure of the primary source restarts
// the whole run on the fallback path, at most once, so a finished run is
// never a mix of the two.
//
// Configuration
//
// ytexport uses a configuration system that loads settings from multiple
// sources:
//
//   1. Environment variables (highest priority)
//   2. A local .env file
//   3. Config file (ytexport.json or ~/.config/ytexport/ytexport.json)
//   4. Default values (lowest priority)
//
// Environment variables:
//
//   - YTEXPORT_API_KEY: YouTube Data API key (enables the primary source)
//   - YTEXPORT_CAPTURE_ENDPOINT: Screenshot service URL
//   - YTEXPORT_CAPTURE_TOKEN: Screenshot service access key
//   - YTEXPORT_OUTPUT_DIR: Artifact output directory
//   - YTEXPORT_MAX_VIDEOS: Maximum playlist items to process
//   - YTEXPORT_CAPTURE_IMAGES: Capture per-video images (true/false)
//   - YTEXPORT_HTTP_TIMEOUT: Timeout per outbound request
//   - YTEXPORT_MAX_RETRIES: Maximum retry attempts
//   - YTEXPORT_INITIAL_BACKOFF: Initial retry backoff duration
//   - YTEXPORT_MAX_BACKOFF: Maximum retry backoff duration
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
//	if errors.Is(err, ytexport.ErrEmptyPlaylist) {
//		fmt.Println("Playlist has no videos")
//	}
//
//	var srcErr *ytexport.SourceError
//	if errors.As(err, &srcErr) {
//		fmt.Printf("%s failed for %s: %v\n", srcErr.Source, srcErr.ID, srcErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Sources, the resolver, and the extraction pipeline
//   - export: Artifact rendering with per-format degradation tiers
//   - normalize: Parsing of duration, count, and date strings
//   - config: Configuration management
//   - retry: Exponential backoff retry logic
//
// Example using the youtube package directly:
//
//	client := ythttp.New(ythttp.DefaultConfig())
//	pipeline, _ := youtube.NewPipeline(youtube.PipelineConfig{
//		Pages:           youtube.NewWatchPageSource(client),
//		FallbackCapture: youtube.NewThumbnailCompositor(client),
//	})
//	run, err := pipeline.Extract(ctx, "PLxxxxxxxx", nil)
//
// Records fabricated from the built-in demo table (used when structural
// extraction finds nothing usable) carry UsedFallbackData so callers can
// tell fabricated rows from real ones; ExtractionRun.FallbackDataIDs lists
// them.
package ytexport
