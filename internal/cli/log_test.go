package cli

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vibegraph/pkg/pipeline"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("Built graph", "mode", "vibe", "nodes", 94)

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("timestamp missing: %q", line)
	}
	for _, want := range []string{"Built graph", "mode=vibe", "nodes=94"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q lacks %q", line, want)
		}
	}
}

func TestVerboseLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		wantLog bool
	}{
		{"default", LogInfo, false},
		{"verbose", LogDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf, LogInfo)
			c.SetLogLevel(tt.level)
			c.Logger.Debug("catalogue cache hit", "source", "mongo:vibegraph")
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("debug output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.done("Built graph", "mode", "artist", "links", 84)

	out := buf.String()
	for _, want := range []string{"Built graph", "mode=artist", "links=84", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}

func TestLoadCatalogLogsCounts(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))

	snap, err := c.loadCatalog(context.Background(), runner, "", sourceFlags{kind: "sample"})
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Songs) != 84 {
		t.Fatalf("songs = %d, want 84", len(snap.Songs))
	}
	out := buf.String()
	for _, want := range []string{"Loaded catalogue", "source=sample", "songs=84", "artists=10", "vibes=10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield the default logger")
	}
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if loggerFromContext(withLogger(context.Background(), c.Logger)) != c.Logger {
		t.Error("attached logger not returned")
	}
}
