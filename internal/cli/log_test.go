package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("fetched notebook") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("parsed notebook") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("parsed notebook") }, true},
		{"warn at error level", log.ErrorLevel, func(l *log.Logger) { l.Warn("unresolved cells") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("fetched notebook", "bytes", 1024)

	out := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(out) {
		t.Errorf("missing HH:MM:SS.ms timestamp: %q", out)
	}
	if !strings.Contains(out, "bytes=1024") {
		t.Errorf("missing key/value pair: %q", out)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Exported @user/notebook")

	if !regexp.MustCompile(`Exported @user/notebook \(\d+(\.\d+)?m?s\)`).MatchString(buf.String()) {
		t.Errorf("progress.done() output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}

	var buf bytes.Buffer
	reqLogger := newLogger(&buf, log.InfoLevel).With("request_id", "r-1")
	ctx := withLogger(context.Background(), reqLogger)

	got := loggerFromContext(ctx)
	if got != reqLogger {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("export")
	if !strings.Contains(buf.String(), "request_id=r-1") {
		t.Errorf("request logger lost its fields: %q", buf.String())
	}
}
