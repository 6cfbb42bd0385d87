// Package logging builds the slog loggers used by the daemon and CLI.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Topics used by the daemon.
const (
	TopicBattery = "battery"
	TopicStorage = "storage"
	TopicCleanup = "cleanup"
	TopicHTTP    = "http"
	TopicDBus    = "dbus"

	// TopicAll enables every topic.
	TopicAll = "all"
)

// TopicHandler wraps an slog.Handler and filters records by a "topic" attribute.
// Records without a topic attribute always pass through (startup messages, errors).
// Records with a topic only pass if that topic is enabled.
type TopicHandler struct {
	inner  slog.Handler
	topics map[string]bool
	topic  string // set when WithAttrs includes a "topic" key
}

// NewTopicHandler wraps inner, passing only the given topics.
func NewTopicHandler(inner slog.Handler, topics []string) *TopicHandler {
	enabled := make(map[string]bool, len(topics))
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			enabled[t] = true
		}
	}
	return &TopicHandler{inner: inner, topics: enabled}
}

func (h *TopicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *TopicHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.topics[TopicAll] {
		return h.inner.Handle(ctx, r)
	}
	topic := h.topic
	if topic == "" {
		// Check record-level attrs as fallback.
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "topic" {
				topic = a.Value.String()
				return false
			}
			return true
		})
	}
	if topic != "" && !h.topics[topic] {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *TopicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	topic := h.topic
	for _, a := range attrs {
		if a.Key == "topic" {
			topic = a.Value.String()
		}
	}
	return &TopicHandler{inner: h.inner.WithAttrs(attrs), topics: h.topics, topic: topic}
}

func (h *TopicHandler) WithGroup(name string) slog.Handler {
	return &TopicHandler{inner: h.inner.WithGroup(name), topics: h.topics, topic: h.topic}
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// ParseTopics splits a comma-separated topic list.
func ParseTopics(s string) []string {
	var topics []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level, topics []string) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTopicHandler(inner, topics))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
