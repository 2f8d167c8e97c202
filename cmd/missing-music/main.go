package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"missingmusic/internal/catalog"
	"missingmusic/internal/config"
	"missingmusic/internal/logger"
	"missingmusic/internal/pipeline"
	"missingmusic/internal/progress"
	"missingmusic/internal/shutdown"
)

func main() {
	cfg, configPath, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()

	log := logger.New(cfg.Verbose)
	defer log.Close()

	if !cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("missing-music_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	client := catalog.New(cfg.CatalogConfig())

	if cfg.IsSingleLookup() {
		err = runLookup(sh.Context(), os.Stdout, client, cfg.Album, cfg.Artist)
	} else {
		err = runCheck(sh, cfg, log, client)
	}
	sh.Shutdown()

	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

// runLookup resolves one album and prints its track listing.
func runLookup(ctx context.Context, w io.Writer, lookup pipeline.Looker, album, artist string) error {
	out, err := lookup.LookupAlbumTracks(ctx, album, artist)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	printOutcome(w, out)
	return nil
}

func printOutcome(w io.Writer, out catalog.Outcome) {
	switch out.Status {
	case catalog.StatusNoRelease:
		fmt.Fprintln(w, "No official releases found.")
	case catalog.StatusNoTracks:
		fmt.Fprintf(w, "Earliest official release: %s\n", out.ReleaseTitle)
		fmt.Fprintln(w, "No tracks available for this release.")
	default:
		fmt.Fprintf(w, "Earliest official release: %s\n", out.ReleaseTitle)
		fmt.Fprintf(w, "Tracks in '%s' release:\n", out.ReleaseTitle)
		for _, t := range out.Tracks {
			fmt.Fprintf(w, "- %s\n", t)
		}
	}
}

func runCheck(sh *shutdown.Handler, cfg config.Config, log *logger.Logger, lookup pipeline.Looker) error {
	var bar *progress.Bar
	hooks := pipeline.Hooks{
		OnAlbumsFound: func(total int) {
			if !cfg.Verbose {
				bar = progress.New(total, "albums")
				log.SetProgressBar(true)
			}
		},
		OnProgress: func(pipeline.AlbumReport) {
			if bar != nil {
				bar.Increment()
			}
		},
	}
	// Let warnings through again once an interrupt cancels the run.
	sh.AddCleanup(func() { log.SetProgressBar(false) })

	sum, err := pipeline.Run(sh.Context(), cfg, log, lookup, hooks)
	if bar != nil {
		bar.Finish()
		log.SetProgressBar(false)
	}
	if err != nil {
		return err
	}

	printSummary(os.Stdout, sum)

	if cfg.MissingFile != "" {
		n, err := pipeline.WriteMissing(cfg.MissingFile, sum.Reports)
		if err != nil {
			return err
		}
		log.Info("Added %d tracks to %s", n, cfg.MissingFile)
	}
	return nil
}

func printSummary(w io.Writer, sum pipeline.Summary) {
	for _, r := range sum.Reports {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "? %s: could not infer artist\n", r.Album.Folder)
		case r.Err != nil:
			fmt.Fprintf(w, "! %s - %s: %v\n", r.Album.Artist, r.Album.Title, r.Err)
		case r.Outcome.Status != catalog.StatusFound:
			fmt.Fprintf(w, "? %s - %s: %s\n", r.Album.Artist, r.Album.Title, r.Outcome.Status)
		case len(r.Missing) == 0:
			fmt.Fprintf(w, "✓ %s - %s\n", r.Album.Artist, r.Album.Title)
		default:
			fmt.Fprintf(w, "✗ %s - %s (%d of %d missing)\n", r.Album.Artist, r.Album.Title, len(r.Missing), len(r.Outcome.Tracks))
			for _, t := range r.Missing {
				fmt.Fprintf(w, "    - %s\n", t)
			}
		}
	}
	fmt.Fprintf(w, "\n%d complete, %d incomplete, %d not found, %d skipped, %d failed\n",
		sum.Complete, sum.Incomplete, sum.NotFound, sum.Skipped, sum.Failed)
}
