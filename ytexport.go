package ytexport

import (
	"context"
	"fmt"

	"ytexport/config"
	"ytexport/export"
	ythttp "ytexport/http"
	"ytexport/retry"
	"ytexport/youtube"
)

// NewPipeline assembles a fully wired extraction pipeline from configuration.
// The returned cleanup func releases the underlying HTTP client and must be
// called when the pipeline is no longer needed.
func NewPipeline(ctx context.Context, cfg *config.Config) (*youtube.Pipeline, func() error, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	retryCfg := retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: retry.DefaultConfig().JitterFraction,
	}

	httpCfg := ythttp.DefaultConfig()
	httpCfg.Timeout = cfg.HTTPTimeout
	httpCfg.Retry = retryCfg
	httpCfg.RateLimiter.WatchPageRPS = cfg.WatchPageRPS
	httpCfg.RateLimiter.ThumbnailRPS = cfg.ThumbnailRPS
	client := ythttp.New(httpCfg)

	pipelineCfg := youtube.PipelineConfig{
		Pages:    youtube.NewWatchPageSource(client),
		MaxItems: cfg.MaxVideos,
	}

	if cfg.APIKey != "" {
		meta, err := youtube.NewDataAPISource(ctx, cfg.APIKey)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ytexport: create api source: %w", err)
		}
		meta.RetryConfig = retryCfg
		pipelineCfg.Metadata = meta
	}

	if cfg.CaptureImages {
		pipelineCfg.FallbackCapture = youtube.NewThumbnailCompositor(client)
		if cfg.CaptureEndpoint != "" {
			capturer, err := youtube.NewScreenshotCapturer(client, cfg.CaptureEndpoint, cfg.CaptureToken)
			if err != nil {
				client.Close()
				return nil, nil, fmt.Errorf("ytexport: create capturer: %w", err)
			}
			pipelineCfg.PrimaryCapture = capturer
		}
	}

	pipeline, err := youtube.NewPipeline(pipelineCfg)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return pipeline, client.Close, nil
}

// Extract is the high-level convenience entry point: load configuration,
// assemble a pipeline, and run one extraction.
//
//	run, err := ytexport.Extract(ctx, "PLxxxx", nil)
func Extract(ctx context.Context, playlistID string, onProgress youtube.ProgressFunc) (*youtube.ExtractionRun, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	pipeline, cleanup, err := NewPipeline(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return pipeline.Extract(ctx, playlistID, onProgress)
}

// ExportAll renders a run in each requested format. Formats are "xlsx",
// "csv", "docx", and "html"; unknown names return an error. The sheet and
// document tiers may degrade, so inspect each Artifact's MIMEType rather
// than assuming the requested format.
func ExportAll(run *youtube.ExtractionRun, formats []string, style export.Style) ([]*export.Artifact, error) {
	r := export.NewRenderer(style)

	var artifacts []*export.Artifact
	for _, format := range formats {
		var (
			a   *export.Artifact
			err error
		)
		switch format {
		case "xlsx":
			a, err = r.ToTabular(run)
		case "csv":
			a, err = r.ToCSV(run)
		case "docx":
			a, err = r.ToRichDocument(run)
		case "html":
			a, err = r.ToPlainDocument(run)
		default:
			return nil, fmt.Errorf("ytexport: unknown format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("ytexport: render %s: %w", format, err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}
