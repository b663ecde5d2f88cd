package logx

import "strings"

// Level orders log severities; a logger emits entries at or above its level.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal exits through the logger's exit func after writing
	LevelFatal
	// LevelOff silences the logger
	LevelOff
)

var levelNames = [...]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
	LevelOff:   "OFF",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel reads a level name in any case. WARNING is accepted for WARN;
// anything unknown falls back to INFO, which is what LOG_LEVEL and the
// --log-level flag expect.
func ParseLevel(level string) Level {
	name := strings.ToUpper(strings.TrimSpace(level))
	if name == "WARNING" {
		return LevelWarn
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l)
		}
	}
	return LevelInfo
}

// Enabled reports whether an entry at target passes a logger set to l.
func (l Level) Enabled(target Level) bool {
	return l <= target
}

// MarshalText makes levels encode by name in JSON output.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
