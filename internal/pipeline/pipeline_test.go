package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"missingmusic/internal/catalog"
	"missingmusic/internal/config"
	"missingmusic/internal/library"
	"missingmusic/internal/logger"
)

// fakeLooker answers lookups from a map keyed by album title.
type fakeLooker struct {
	mu       sync.Mutex
	outcomes map[string]catalog.Outcome
	errs     map[string]error
	calls    []string
}

func (f *fakeLooker) LookupAlbumTracks(_ context.Context, album, artist string) (catalog.Outcome, error) {
	f.mu.Lock()
	f.calls = append(f.calls, artist+"/"+album)
	f.mu.Unlock()
	if err := f.errs[album]; err != nil {
		return catalog.Outcome{}, err
	}
	if out, ok := f.outcomes[album]; ok {
		return out, nil
	}
	return catalog.Outcome{Status: catalog.StatusNoRelease}, nil
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.ParallelJobs = 3
	cfg.MatchThreshold = 0.8
	return cfg
}

func quietLogger() *logger.Logger {
	var buf bytes.Buffer
	return logger.NewWithWriters(false, &buf, &buf)
}

func TestCheckAlbums(t *testing.T) {
	albums := []library.Album{
		{Folder: "ok", Title: "OK Computer", Artist: "Radiohead", Songs: []string{"Airbag", "Paranoid Android"}},
		{Folder: "kid", Title: "Kid A", Artist: "Radiohead", Songs: []string{"Kid A"}},
		{Folder: "mystery", Title: "Mystery", Artist: "Nobody", Songs: []string{"x"}},
		{Folder: "broken", Title: "Broken", Artist: "Err", Songs: []string{"y"}},
		{Folder: "mix", Title: "mix", Songs: []string{"z"}},
		{Folder: "bare", Title: "Bare", Artist: "B", Songs: []string{"b"}},
	}
	fl := &fakeLooker{
		outcomes: map[string]catalog.Outcome{
			"OK Computer": {Status: catalog.StatusFound, ReleaseTitle: "OK Computer", Tracks: []string{"Airbag", "Paranoid Android"}},
			"Kid A":       {Status: catalog.StatusFound, ReleaseTitle: "Kid A", Tracks: []string{"Everything in Its Right Place", "Kid A", "The National Anthem"}},
			"Bare":        {Status: catalog.StatusNoTracks, ReleaseTitle: "Bare"},
		},
		errs: map[string]error{
			"Broken": &catalog.FetchError{Kind: catalog.KindTransport, Op: "search", Err: errors.New("refused")},
		},
	}

	var found int
	var progressed atomic.Int32
	hooks := Hooks{
		OnAlbumsFound: func(total int) { found = total },
		OnProgress:    func(AlbumReport) { progressed.Add(1) },
	}

	sum, err := CheckAlbums(context.Background(), albums, testConfig(), quietLogger(), fl, hooks)
	if err != nil {
		t.Fatalf("CheckAlbums() error: %v", err)
	}

	if found != len(albums) {
		t.Errorf("OnAlbumsFound total = %d, want %d", found, len(albums))
	}
	if int(progressed.Load()) != len(albums) {
		t.Errorf("OnProgress calls = %d, want %d", progressed.Load(), len(albums))
	}
	if sum.Complete != 1 || sum.Incomplete != 1 || sum.NotFound != 2 || sum.Failed != 1 || sum.Skipped != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if len(fl.calls) != 5 {
		t.Errorf("expected 5 lookups (skipped album has no artist), got %v", fl.calls)
	}

	for i, r := range sum.Reports {
		if r.Album.Folder != albums[i].Folder {
			t.Fatalf("report %d is for %q, want %q", i, r.Album.Folder, albums[i].Folder)
		}
	}
	kid := sum.Reports[1]
	if strings.Join(kid.Missing, "|") != "Everything in Its Right Place|The National Anthem" {
		t.Errorf("Kid A missing = %v", kid.Missing)
	}
	if !catalog.IsTransport(sum.Reports[3].Err) {
		t.Errorf("expected transport error in report, got %v", sum.Reports[3].Err)
	}
	if !sum.Reports[4].Skipped {
		t.Error("album without artist should be skipped")
	}
}

func TestCheckAlbumsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	albums := []library.Album{{Folder: "a", Title: "A", Artist: "X", Songs: []string{"s"}}}
	_, err := CheckAlbums(ctx, albums, testConfig(), quietLogger(), &fakeLooker{}, Hooks{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "OK Computer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Radiohead - Airbag.mp3"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.MusicDir = root
	fl := &fakeLooker{outcomes: map[string]catalog.Outcome{
		"OK Computer": {Status: catalog.StatusFound, Tracks: []string{"Airbag", "Lucky"}},
	}}

	sum, err := Run(context.Background(), cfg, quietLogger(), fl, Hooks{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(sum.Reports) != 1 || strings.Join(sum.Reports[0].Missing, ",") != "Lucky" {
		t.Errorf("reports = %+v", sum.Reports)
	}
}

func TestRunEmptyLibrary(t *testing.T) {
	cfg := testConfig()
	cfg.MusicDir = t.TempDir()
	if _, err := Run(context.Background(), cfg, quietLogger(), &fakeLooker{}, Hooks{}); err == nil {
		t.Error("expected error for empty library")
	}
}

func TestWriteMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing_songs.txt")
	if err := os.WriteFile(path, []byte("Old - Entry\n"), 0644); err != nil {
		t.Fatal(err)
	}

	reports := []AlbumReport{
		{Album: library.Album{Artist: "Radiohead"}, Missing: []string{"Lucky", "Airbag"}},
		{Album: library.Album{Artist: "Nobody"}},
	}
	n, err := WriteMissing(path, reports)
	if err != nil {
		t.Fatalf("WriteMissing() error: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d lines, want 2", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Old - Entry\nRadiohead - Lucky\nRadiohead - Airbag\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}
