package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"ytexport"
	"ytexport/config"
	"ytexport/export"
	"ytexport/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export":
		cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Assume the argument is a playlist, for the common one-shot case
		cmdExport(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytexport - YouTube playlist metadata extractor and exporter

Usage:
  ytexport export [flags] <playlist-id-or-url>   Extract a playlist and write artifacts
  ytexport help                                  Show this help message

Examples:
  ytexport PLxxxxxxxx                                         # Export with defaults
  ytexport export --formats xlsx,docx PLxxxxxxxx              # Pick formats
  ytexport export --max 25 --dir ./out PLxxxxxxxx             # Limit and redirect output
  ytexport export --images=false PLxxxxxxxx                   # Skip image capture
  ytexport "https://www.youtube.com/playlist?list=PLxxxxxxxx" # URLs work too

For help on the export command: ytexport export -h
`)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	formats := fs.String("formats", "xlsx,html", "Comma-separated output formats: xlsx, csv, docx, html")
	dir := fs.String("dir", "", "Output directory (default from config)")
	maxVideos := fs.Int("max", -1, "Maximum videos to process (0 = all)")
	images := fs.Bool("images", true, "Capture a per-video image")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytexport export [flags] <playlist-id-or-url>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing playlist\n")
		fs.Usage()
		os.Exit(1)
	}

	playlistID, err := playlistIDFromArg(argv[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dir != "" {
		cfg.OutputDir = *dir
	}
	if *maxVideos >= 0 {
		cfg.MaxVideos = *maxVideos
	}
	cfg.CaptureImages = *images

	requested := strings.Split(*formats, ",")
	for i := range requested {
		requested[i] = strings.TrimSpace(requested[i])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, cleanup, err := ytexport.NewPipeline(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	var onProgress youtube.ProgressFunc
	if !*quiet {
		onProgress = printProgress
	}

	run, err := pipeline.Extract(ctx, playlistID, onProgress)
	if err != nil {
		if !*quiet {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", extractErrorMessage(err))
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintln(os.Stderr)
	}

	if fabricated := run.FallbackDataIDs(); len(fabricated) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d record(s) contain demo data, extraction found no usable metadata: %s\n",
			len(fabricated), strings.Join(fabricated, ", "))
	}

	artifacts, err := ytexport.ExportAll(run, requested, export.DefaultStyle())
	if err != nil {
		if errors.Is(err, ytexport.ErrEmptyInput) {
			fmt.Fprintln(os.Stderr, "Error: nothing to export yet")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, a := range artifacts {
		path := filepath.Join(cfg.OutputDir, a.SuggestedFilename)
		if err := os.WriteFile(path, a.Bytes, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%s, %d bytes)\n", path, a.MIMEType, len(a.Bytes))
	}

	source := "primary"
	if run.UsedFallbackSource {
		source = "fallback"
	}
	fmt.Printf("Extracted %d videos (total %s) from %s via %s source\n",
		len(run.Records), run.DurationDisplay(), run.PlaylistID, source)
}

// extractErrorMessage maps terminal extraction errors to a single
// human-readable line per category.
func extractErrorMessage(err error) string {
	switch {
	case errors.Is(err, ytexport.ErrEmptyPlaylist):
		return "no videos found in this playlist"
	case errors.Is(err, ytexport.ErrSourceEmpty):
		return "invalid playlist reference, the source returned no data"
	case errors.Is(err, context.Canceled):
		return "extraction canceled"
	case errors.Is(err, ytexport.ErrRunInProgress):
		return "another extraction is already running"
	default:
		return fmt.Sprintf("extraction failed: %v", err)
	}
}

// printProgress renders a single in-place progress line on stderr.
func printProgress(p youtube.Progress) {
	line := fmt.Sprintf("[%5.1f%%] %s", p.FractionComplete, p.Message)
	if p.CurrentTitle != "" {
		line += ": " + p.CurrentTitle
	}
	if len(line) > 100 {
		line = line[:97] + "..."
	}
	fmt.Fprintf(os.Stderr, "\r%-100s", line)
}

// playlistIDFromArg accepts either a bare playlist ID or any YouTube URL
// carrying a list parameter.
func playlistIDFromArg(arg string) (string, error) {
	if !strings.Contains(arg, "/") && !strings.Contains(arg, "?") {
		return arg, nil
	}

	u, err := url.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("invalid playlist URL %q", arg)
	}
	if id := u.Query().Get("list"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no playlist id found in %q", arg)
}
