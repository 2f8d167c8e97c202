package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ResolveRelease searches the catalog for official album releases matching
// album and artist and picks the earliest one. It returns nil, nil when the
// search yields no candidates.
func (c *Client) ResolveRelease(ctx context.Context, album, artist string) (*Release, error) {
	q := c.buildQuery(album, artist)
	reqURL := fmt.Sprintf("%s/release/?query=%s&fmt=json", c.apiURL, url.QueryEscape(q))

	var result SearchResult
	if err := c.getJSON(ctx, "search", reqURL, &result); err != nil {
		return nil, err
	}
	return PickEarliestOfficial(result.Releases), nil
}

func (c *Client) buildQuery(album, artist string) string {
	if c.literalQuery {
		return BuildQuery(album, artist)
	}
	return BuildQuery(escapePhrase(album), escapePhrase(artist))
}

// BuildQuery returns the release search query for album and artist. Both
// values are embedded verbatim inside quoted phrases.
func BuildQuery(album, artist string) string {
	return fmt.Sprintf(`release:"%s" AND artist:"%s" AND primarytype:album AND status:official`, album, artist)
}

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escapePhrase escapes the characters that would terminate a quoted phrase.
func escapePhrase(s string) string {
	return phraseEscaper.Replace(s)
}

// PickEarliestOfficial selects the release with the lexicographically
// smallest date. Undated releases are only considered when no candidate has
// a date, in which case the first candidate wins. A present but empty date
// counts as known. Dates are compared as raw strings, which orders ISO-8601
// YYYY[-MM[-DD]] values correctly.
func PickEarliestOfficial(releases []Release) *Release {
	chosen := make([]Release, 0, len(releases))
	for _, r := range releases {
		if r.Date != nil {
			chosen = append(chosen, r)
		}
	}
	if len(chosen) == 0 {
		chosen = append(chosen, releases...)
	}
	if len(chosen) == 0 {
		return nil
	}

	sort.SliceStable(chosen, func(i, j int) bool {
		return chosen[i].DateString() < chosen[j].DateString()
	})
	best := chosen[0]
	return &best
}
