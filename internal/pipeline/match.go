package pipeline

import (
	"strings"
	"unicode"
)

// MissingTracks returns the catalog track titles that no local song matches
// with a similarity of at least threshold, in catalog order.
func MissingTracks(catalogTracks, localSongs []string, threshold float64) []string {
	local := make([]string, len(localSongs))
	for i, s := range localSongs {
		local[i] = Normalize(s)
	}

	var missing []string
	for _, title := range catalogTracks {
		want := Normalize(title)
		found := false
		for _, have := range local {
			if Similarity(want, have) >= threshold {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, title)
		}
	}
	return missing
}

// Similarity returns how similar two normalized strings are (0.0-1.0).
// Uses both token overlap and compact string comparison to handle cases
// like "paranoidandroid" vs "paranoid android".
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	if strings.ReplaceAll(a, " ", "") == strings.ReplaceAll(b, " ", "") {
		return 1.0
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}

	matches := 0
	for _, t := range tokensA {
		if setB[t] {
			matches++
		}
	}

	return float64(matches) / float64(max(len(tokensA), len(tokensB)))
}

// Normalize lowercases and strips everything but letters, digits and spaces.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
