package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestBarFinish(t *testing.T) {
	var buf bytes.Buffer
	b := NewWithWriter(&buf, 3, "albums")
	b.Increment()
	b.Increment()
	b.Increment()
	b.Finish()
	b.Finish()

	out := buf.String()
	if !strings.Contains(out, "3/3 albums (100.0%)") {
		t.Errorf("missing completed state: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("Finish should end the line exactly once: %q", out)
	}
}

func TestBarDoesNotOverflow(t *testing.T) {
	var buf bytes.Buffer
	b := NewWithWriter(&buf, 1, "albums")
	b.Increment()
	b.Increment()
	if strings.Contains(buf.String(), "2/1") {
		t.Errorf("bar overflowed: %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute, "2h5m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
