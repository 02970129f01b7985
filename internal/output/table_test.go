package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/appdrop/appdrop/internal/registry"
)

func TestRenderAppTable_Empty(t *testing.T) {
	got := RenderAppTable(nil)
	if !strings.Contains(got, "No applications installed") {
		t.Errorf("RenderAppTable(nil) = %q", got)
	}
}

func TestRenderAppTable_Rows(t *testing.T) {
	apps := []*registry.App{
		{
			Name:        "Foo",
			Version:     "1.0",
			InstallPath: "/home/u/Applications/Foo.AppImage",
			InstalledAt: time.Now().Add(-48 * time.Hour),
		},
		{
			Name:            "Chatterbox",
			InstallPath:     "/home/u/Applications/Chatterbox.AppImage",
			EmbeddedRuntime: true,
			InstalledAt:     time.Now(),
		},
	}

	got := RenderAppTable(apps)

	if !strings.Contains(got, "Foo") || !strings.Contains(got, "1.0") {
		t.Errorf("table missing Foo row:\n%s", got)
	}
	if !strings.Contains(got, "2 days ago") {
		t.Errorf("table missing relative install time:\n%s", got)
	}
	// Versionless app renders a placeholder, not a blank cell.
	if !strings.Contains(got, "—") {
		t.Errorf("table missing version placeholder:\n%s", got)
	}
	// Embedded-runtime apps get the slow-start marker and legend.
	if !strings.Contains(got, "◷") || !strings.Contains(got, "first launch may be slow") {
		t.Errorf("table missing runtime marker:\n%s", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is far too long", 10, "this is f…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "never"},
		{time.Now().Add(-10 * time.Second), "just now"},
		{time.Now().Add(-5 * time.Minute), "5 minutes ago"},
		{time.Now().Add(-3 * time.Hour), "3 hours ago"},
		{time.Now().Add(-72 * time.Hour), "3 days ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
		}
	}
}

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Extracting bundle")
	s.SetWriter(&buf)

	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.StopWithMessage("done")

	out := buf.String()
	if strings.Count(out, "Extracting bundle") != 1 {
		t.Errorf("non-TTY spinner output = %q, want message printed once", out)
	}
	if !strings.Contains(out, "done") {
		t.Errorf("final message missing from %q", out)
	}
}
