package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/obsexport/pkg/pipeline"
)

func TestStatusStats(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   []string
		absent []string
	}{
		{
			name:  "fresh export",
			stats: pipeline.Stats{CellCount: 12, Ignored: 2, SourceBytes: 2048, FetchTime: 80 * time.Millisecond, ParseTime: 5 * time.Millisecond},
			want:  []string{"12 cells", "2 ignored", "2.0 KB", "85ms", "fresh"},
		},
		{
			name:   "cache hit",
			stats:  pipeline.Stats{SourceBytes: 10},
			cached: true,
			want:   []string{"10 B", "cached"},
			absent: []string{"cells", "ignored", "fresh"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			status{&buf}.stats(tt.stats, tt.cached)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("stats line %q missing %q", out, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("stats line %q should not contain %q", out, a)
				}
			}
		})
	}
}

func TestStatusWritten(t *testing.T) {
	var buf bytes.Buffer
	s := status{&buf}
	s.written("out/demo.js", 3<<20, false)
	s.written("out/demo.js", 512, true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "out/demo.js") || !strings.Contains(lines[0], "wrote 3.0 MB") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "appended 512 B") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestExportStatusGoesToLogOutput(t *testing.T) {
	srv, _ := apiServer(t)
	isolateConfig(t)
	cfg := writeConfig(t, "base_url = \""+srv.URL+"\"\n\n[cache]\nbackend = \"none\"\n")
	path := filepath.Join(t.TempDir(), "demo.js")

	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "export", "@me/demo", "-o", path})
	root.SetOut(&out)
	root.SetErr(&logs)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("status leaked to stdout: %q", out.String())
	}
	for _, want := range []string{"Exported @me/demo as js", path, "4 cells", "fresh", "obsexport cells @me/demo"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, logs.String())
		}
	}
}

func TestCacheClearDisabled(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.Config.Cache.Backend = backendNone

	cmd := c.cacheClearCommand()
	cmd.SetContext(context.Background())
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "Cache is disabled") {
		t.Errorf("output = %q", logs.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
