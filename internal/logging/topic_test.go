package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTopicHandler_Filters(t *testing.T) {
	tests := []struct {
		name       string
		topics     []string
		wantLines  []string
		wantAbsent []string
	}{
		{
			name:       "no topics keeps untagged only",
			topics:     nil,
			wantLines:  []string{"startup"},
			wantAbsent: []string{"sample", "http request"},
		},
		{
			name:       "battery enabled",
			topics:     []string{"battery"},
			wantLines:  []string{"startup", "sample"},
			wantAbsent: []string{"http request"},
		},
		{
			name:      "all enables everything",
			topics:    []string{TopicAll},
			wantLines: []string{"startup", "sample", "http request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, slog.LevelDebug, tt.topics)

			logger.Info("startup")
			logger.With("topic", TopicBattery).Info("sample", "charge_pct", 85)
			logger.Info("http request", "topic", TopicHTTP)

			out := buf.String()
			for _, want := range tt.wantLines {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(out, absent) {
					t.Errorf("output contains filtered %q:\n%s", absent, out)
				}
			}
		})
	}
}

func TestTopicHandler_WithGroupKeepsTopic(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, nil)

	logger.With("topic", TopicDBus).WithGroup("req").Info("call")
	if buf.Len() != 0 {
		t.Fatalf("grouped record with disabled topic was written: %s", buf.String())
	}
}

func TestTopicHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, []string{TopicAll})

	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("level filtering wrong:\n%s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("ParseLevel(warn) = %v, %v", level, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("ParseLevel(loud) error = nil")
	}
}

func TestParseTopics(t *testing.T) {
	got := ParseTopics(" battery, ,http ")
	if strings.Join(got, "|") != "battery|http" {
		t.Fatalf("ParseTopics() = %v", got)
	}
}
