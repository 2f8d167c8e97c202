package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"missingmusic/internal/catalog"
	"missingmusic/internal/config"
	"missingmusic/internal/library"
	"missingmusic/internal/logger"
)

// Looker looks up the official track listing of an album.
type Looker interface {
	LookupAlbumTracks(ctx context.Context, album, artist string) (catalog.Outcome, error)
}

// Hooks are called serially, from whichever goroutine finished the work.
type Hooks struct {
	OnAlbumsFound func(total int)
	OnProgress    func(report AlbumReport)
}

// AlbumReport is the result of checking one local album.
type AlbumReport struct {
	Album   library.Album
	Outcome catalog.Outcome
	Missing []string
	Skipped bool  // no artist could be inferred; no lookup was made
	Err     error // lookup failure; the batch continues
}

// Summary aggregates a batch check.
type Summary struct {
	Reports    []AlbumReport
	Complete   int
	Incomplete int
	NotFound   int
	Skipped    int
	Failed     int
}

// Run scans cfg.MusicDir and checks every album against the catalog.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger, lookup Looker, hooks Hooks) (Summary, error) {
	log.Info("=== Scanning %s ===", cfg.MusicDir)
	albums, err := library.Scan(cfg.MusicDir)
	if err != nil {
		return Summary{}, err
	}
	if len(albums) == 0 {
		return Summary{}, fmt.Errorf("no album folders with audio files found in %s", cfg.MusicDir)
	}
	return CheckAlbums(ctx, albums, cfg, log, lookup, hooks)
}

// CheckAlbums looks up albums with at most cfg.ParallelJobs concurrent
// lookups. A failed lookup is recorded in its report and does not stop the
// batch; cancelling ctx does. Reports keep the order of albums.
func CheckAlbums(ctx context.Context, albums []library.Album, cfg config.Config, log *logger.Logger, lookup Looker, hooks Hooks) (Summary, error) {
	if hooks.OnAlbumsFound != nil {
		hooks.OnAlbumsFound(len(albums))
	}
	log.Info("=== Checking %d albums (%d parallel) ===", len(albums), cfg.ParallelJobs)

	reports := make([]AlbumReport, len(albums))
	var hookMu sync.Mutex
	done := func(r AlbumReport) {
		if hooks.OnProgress == nil {
			return
		}
		hookMu.Lock()
		defer hookMu.Unlock()
		hooks.OnProgress(r)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.ParallelJobs, 1))

	for i, album := range albums {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r := checkAlbum(gctx, album, cfg.MatchThreshold, log, lookup)
			if r.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			reports[i] = r
			done(r)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("album check cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, fmt.Errorf("album check cancelled: %w", err)
	}

	return summarize(reports), nil
}

func checkAlbum(ctx context.Context, album library.Album, threshold float64, log *logger.Logger, lookup Looker) AlbumReport {
	r := AlbumReport{Album: album}
	if album.Artist == "" {
		log.Warn("Skipping %q: could not infer artist (expected \"<Artist> - <Track>\" filenames or tags)", album.Folder)
		r.Skipped = true
		return r
	}

	log.Debug("Looking up %q by %q", album.Title, album.Artist)
	out, err := lookup.LookupAlbumTracks(ctx, album.Title, album.Artist)
	if err != nil {
		log.Warn("Lookup failed for %q by %q: %v", album.Title, album.Artist, err)
		r.Err = err
		return r
	}
	r.Outcome = out

	if out.Status == catalog.StatusFound {
		r.Missing = MissingTracks(out.Tracks, album.Songs, threshold)
	}
	log.Debug("%q: %s, %d missing", album.Title, out.Status, len(r.Missing))
	return r
}

func summarize(reports []AlbumReport) Summary {
	s := Summary{Reports: reports}
	for _, r := range reports {
		switch {
		case r.Skipped:
			s.Skipped++
		case r.Err != nil:
			s.Failed++
		case r.Outcome.Status != catalog.StatusFound:
			s.NotFound++
		case len(r.Missing) > 0:
			s.Incomplete++
		default:
			s.Complete++
		}
	}
	return s
}
