// Package library infers (artist, album) pairs from a local music folder.
//
// Each immediate subdirectory of the library root is treated as one album.
// Artist and song titles come from embedded tags when the files carry them,
// and otherwise from the "<Artist> - <Track>" filename convention.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"
)

// Album is one local album folder.
type Album struct {
	Folder string   // directory name
	Path   string   // absolute or root-relative directory path
	Artist string   // "" when it could not be inferred
	Title  string   // album title used for the catalog lookup
	Songs  []string // song titles, in directory order
}

// TagReader returns the tags of an audio file, keyed like taglib.ReadTags.
type TagReader func(path string) (map[string][]string, error)

var audioExtensions = map[string]bool{
	".mp3": true, ".flac": true, ".m4a": true, ".ogg": true, ".opus": true,
	".wav": true, ".aac": true, ".wma": true, ".alac": true, ".aiff": true,
}

// Scanner walks a library root. The zero value reads tags with taglib.
type Scanner struct {
	ReadTags TagReader
}

// Scan scans root with the default Scanner.
func Scan(root string) ([]Album, error) {
	return Scanner{}.Scan(root)
}

// Scan returns one Album per subdirectory of root that contains audio files,
// sorted by folder name.
func (s Scanner) Scan(root string) ([]Album, error) {
	readTags := s.ReadTags
	if readTags == nil {
		readTags = taglib.ReadTags
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read music directory %s: %w", root, err)
	}

	var albums []Album
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		album, err := scanAlbum(dir, readTags)
		if err != nil {
			return nil, err
		}
		if len(album.Songs) > 0 {
			albums = append(albums, album)
		}
	}
	return albums, nil
}

func scanAlbum(dir string, readTags TagReader) (Album, error) {
	album := Album{
		Folder: filepath.Base(dir),
		Path:   dir,
		Title:  filepath.Base(dir),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return album, fmt.Errorf("failed to read album directory %s: %w", dir, err)
	}

	tagAlbum := ""
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsAudioFile(e.Name()) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))

		var tags map[string][]string
		if t, err := readTags(filepath.Join(dir, e.Name())); err == nil {
			tags = t
		}

		fileArtist, fileTrack, split := SplitArtistTrack(stem)
		title := firstTag(tags, taglib.Title)
		if title == "" {
			title = stem
			if split {
				title = fileTrack
			}
		}
		album.Songs = append(album.Songs, title)

		if album.Artist == "" {
			artist := firstTag(tags, taglib.AlbumArtist)
			if artist == "" {
				artist = firstTag(tags, taglib.Artist)
			}
			if artist == "" && split {
				artist = fileArtist
			}
			album.Artist = artist
		}
		if tagAlbum == "" {
			tagAlbum = firstTag(tags, taglib.Album)
		}
	}

	if tagAlbum != "" {
		album.Title = tagAlbum
	}
	return album, nil
}

// SplitArtistTrack splits a "<Artist> - <Track>" file stem at the first
// separator. ok is false when the stem has no separator.
func SplitArtistTrack(stem string) (artist, track string, ok bool) {
	parts := strings.SplitN(stem, " - ", 2)
	if len(parts) < 2 {
		return "", "", false
	}
	artist = strings.TrimSpace(parts[0])
	track = strings.TrimSpace(parts[1])
	if artist == "" || track == "" {
		return "", "", false
	}
	return artist, track, true
}

// IsAudioFile reports whether name has a known audio extension.
func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

func firstTag(tags map[string][]string, key string) string {
	for _, v := range tags[key] {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
