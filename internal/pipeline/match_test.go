package pipeline

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Paranoid Android", "paranoid android"},
		{"  Karma   Police! ", "karma police"},
		{"Don't Stop Me Now", "dont stop me now"},
		{"Café del Mar", "café del mar"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "airbag", "airbag", 1.0},
		{"compact equal", "paranoidandroid", "paranoid android", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "airbag", "", 0.0},
		{"half overlap", "exit music", "exit song", 0.5},
		{"no overlap", "lucky", "airbag", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMissingTracks(t *testing.T) {
	catalogTracks := []string{"Airbag", "Paranoid Android", "Subterranean Homesick Alien", "Lucky"}
	local := []string{"airbag", "Paranoid Android (Remastered)", "lucky"}

	got := MissingTracks(catalogTracks, local, 0.6)
	want := "Subterranean Homesick Alien"
	if strings.Join(got, "|") != want {
		t.Errorf("MissingTracks() = %v, want [%s]", got, want)
	}

	if got := MissingTracks(catalogTracks, nil, 0.8); len(got) != len(catalogTracks) {
		t.Errorf("with no local songs every track is missing, got %v", got)
	}
	if got := MissingTracks(nil, local, 0.8); got != nil {
		t.Errorf("no catalog tracks should yield nil, got %v", got)
	}
}
