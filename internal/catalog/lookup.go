package catalog

import "context"

// Status is the terminal state of a successful lookup.
type Status string

const (
	StatusFound     Status = "found"
	StatusNoRelease Status = "no_release"
	StatusNoTracks  Status = "no_tracks"
)

func (s Status) String() string {
	switch s {
	case StatusNoRelease:
		return "no official release found"
	case StatusNoTracks:
		return "release found, no track data available"
	default:
		return string(s)
	}
}

// Outcome is the result of LookupAlbumTracks.
type Outcome struct {
	Status       Status   `json:"status"`
	ReleaseID    string   `json:"release_id,omitempty"`
	ReleaseTitle string   `json:"release_title,omitempty"`
	Tracks       []string `json:"tracks,omitempty"`
}

// LookupAlbumTracks resolves album/artist to a release and fetches its track
// titles. Not finding a release or track data is reported through
// Outcome.Status; any request failure aborts the lookup with a *FetchError.
func (c *Client) LookupAlbumTracks(ctx context.Context, album, artist string) (Outcome, error) {
	rel, err := c.ResolveRelease(ctx, album, artist)
	if err != nil {
		return Outcome{}, err
	}
	if rel == nil {
		return Outcome{Status: StatusNoRelease}, nil
	}

	out := Outcome{ReleaseID: rel.ID, ReleaseTitle: rel.Title}

	tracks, ok, err := c.TracksForRelease(ctx, rel.ID)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		out.Status = StatusNoTracks
		return out, nil
	}

	out.Status = StatusFound
	out.Tracks = make([]string, len(tracks))
	for i, t := range tracks {
		out.Tracks[i] = t.Title
	}
	return out, nil
}
