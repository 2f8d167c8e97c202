package pipeline

import (
	"bufio"
	"fmt"
	"os"
)

// WriteMissing appends one "<Artist> - <Track>" line per missing track to
// path, creating it if needed, and returns the number of lines written.
func WriteMissing(path string, reports []AlbumReport) (int, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open missing songs file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n := 0
	for _, r := range reports {
		for _, title := range r.Missing {
			if _, err := fmt.Fprintf(w, "%s - %s\n", r.Album.Artist, title); err != nil {
				return n, fmt.Errorf("failed to write missing songs file: %w", err)
			}
			n++
		}
	}
	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("failed to write missing songs file: %w", err)
	}
	return n, nil
}
