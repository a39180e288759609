// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level slog.Level
		want  string
	}{
		{"info", slog.LevelInfo, `"level":"info"`},
		{"warn", slog.LevelWarn, `"level":"warn"`},
		{"error", slog.LevelError, `"level":"error"`},
		{"above error", slog.LevelError + 4, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			slogger := NewSlogLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))
			slogger.Log(context.Background(), tt.level, "service event")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %s, want %s", buf.String(), tt.want)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := NewSlogLogger(zerolog.New(&buf))

	slogger.Info("service restarted",
		slog.String("service", "analysis"),
		slog.Int("failures", 2),
		slog.Uint64("bytes", 9),
		slog.Float64("backoff", 1.5),
		slog.Bool("restarting", true),
		slog.Duration("elapsed", 3*time.Second),
		slog.Any("err", errors.New("boom")),
	)

	out := buf.String()
	for _, want := range []string{
		`"service":"analysis"`,
		`"failures":2`,
		`"bytes":9`,
		`"backoff":1.5`,
		`"restarting":true`,
		`"elapsed":`,
		`"err":"boom"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := NewSlogLogger(zerolog.New(&buf)).
		With(slog.String("tree", "root")).
		WithGroup("event").
		WithGroup("detail")

	slogger.Info("terminated", slog.String("name", "http"), slog.Group("backoff", slog.Int("n", 1)))

	out := buf.String()
	for _, want := range []string{
		`"tree":"root"`,
		`"event.detail.name":"http"`,
		`"event.detail.backoff.n":1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
	if h.WithAttrs(nil) != h {
		t.Error("WithAttrs(nil) should return the same handler")
	}
}
