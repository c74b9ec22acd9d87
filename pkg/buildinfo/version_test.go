package buildinfo

import (
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestUserAgent(t *testing.T) {
	tests := []struct {
		version, commit string
		want            string
	}{
		{"dev", "none", "obsexport/dev"},
		{"v1.2.0", "", "obsexport/v1.2.0"},
		{"v1.2.0", "3f2c1ab", "obsexport/v1.2.0 (3f2c1ab)"},
	}
	for _, tt := range tests {
		stamp(t, tt.version, tt.commit, "unknown")
		if got := UserAgent(); got != tt.want {
			t.Errorf("UserAgent() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v1.2.0", "3f2c1ab", "2026-10-01T12:00:00Z")
	got := Template()
	for _, want := range []string{"{{.Name}} v1.2.0", "commit: 3f2c1ab", "2026-10-01T12:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
}
