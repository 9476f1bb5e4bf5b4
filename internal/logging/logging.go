package logging

import (
	"io"
	log "log/slog"

	"github.com/lmittmann/tint"
)

var levelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Level maps a level name to a slog level. Unknown names mean info.
func Level(name string) log.Level {
	if l, ok := levelMap[name]; ok {
		return l
	}
	return log.LevelInfo
}

// New builds the process logger: colored tint output, or JSON lines when
// format is "json".
func New(w io.Writer, level, format string) *log.Logger {
	if format == "json" {
		return log.New(log.NewJSONHandler(w, &log.HandlerOptions{Level: Level(level)}))
	}
	return log.New(tint.NewHandler(w, &tint.Options{
		Level:      Level(level),
		TimeFormat: "15:04:05",
	}))
}
