package logger

import (
	"context"
	"log/slog"
	"strings"
)

// ginPrefixes are the markers gin puts in front of its own lines.
// They duplicate the level and source, which the structured record already has.
var ginPrefixes = []string{"[GIN-debug] ", "[GIN-debug]", "[GIN] ", "[WARNING] "}

// ginWriter turns gin's plain-text output into structured records.
type ginWriter struct {
	log   *slog.Logger
	level slog.Level
}

func (w *ginWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		msg := cleanGinLine(line)
		if msg == "" {
			continue
		}
		w.log.Log(context.Background(), w.level, msg, "logger", "gin")
	}
	return len(p), nil
}

func cleanGinLine(line string) string {
	line = strings.TrimSpace(line)
	for _, prefix := range ginPrefixes {
		line = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(line)
}
