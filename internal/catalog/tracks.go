package catalog

import (
	"context"
	"fmt"
	"net/url"
)

// TracksForRelease fetches the track listing of a release. Only the first
// media unit is read; later discs of multi-disc releases are ignored.
//
// ok is false when the release has no media or the first media unit carries
// no track list. An explicitly empty track list is returned with ok true.
func (c *Client) TracksForRelease(ctx context.Context, releaseID string) (tracks []Track, ok bool, err error) {
	reqURL := fmt.Sprintf("%s/release/%s?inc=recordings&fmt=json", c.apiURL, url.PathEscape(releaseID))

	var detail DetailedRelease
	if err := c.getJSON(ctx, "release", reqURL, &detail); err != nil {
		return nil, false, err
	}

	if len(detail.Media) == 0 {
		return nil, false, nil
	}
	first := detail.Media[0]
	if first.Tracks == nil {
		return nil, false, nil
	}
	return first.Tracks, true, nil
}
