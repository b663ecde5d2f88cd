package logx

import (
	"fmt"
	"sort"
	"strings"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorWhite = "\033[97m"

	colorBoldRed    = "\033[1;31m"
	colorBoldYellow = "\033[1;33m"
	colorBoldCyan   = "\033[1;36m"
	colorBoldGreen  = "\033[1;32m"
)

// ConsoleFormatter formats logs for console output with colors
type ConsoleFormatter struct {
	config *Config
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(config *Config) *ConsoleFormatter {
	return &ConsoleFormatter{config: config}
}

func (f *ConsoleFormatter) paint(b *strings.Builder, color, s string) {
	if f.config.EnableColors {
		b.WriteString(color)
		b.WriteString(s)
		b.WriteString(colorReset)
		return
	}
	b.WriteString(s)
}

// Format renders: timestamp, level, [caller], message, then key=value fields
// in key order so lines are stable across runs.
func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	if f.config.EnableTimestamp {
		f.paint(&b, colorGray, formatTimestamp(entry.Timestamp, f.config.TimeFormat))
		b.WriteString(" ")
	}

	b.WriteString(f.formatLevel(entry.Level))
	b.WriteString(" ")

	if f.config.EnableCaller && entry.Caller != "" {
		f.paint(&b, colorGray, "["+entry.Caller+"]")
		b.WriteString(" ")
	}

	f.paint(&b, colorWhite, entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, entry.Fields[k])
		}
		b.WriteString(" ")
		f.paint(&b, colorCyan, strings.Join(pairs, " "))
	}

	if entry.Error != nil {
		b.WriteString("\n")
		if f.config.EnableColors {
			f.paint(&b, colorRed, "  ╰─→ error: "+entry.Error.Error())
		} else {
			b.WriteString("  error: " + entry.Error.Error())
		}
	}

	b.WriteString("\n")
	if entry.Data != nil {
		lines := strings.Split(prettyJSON(entry.Data), "\n")
		for i, line := range lines {
			lines[i] = "  " + line
		}
		f.paint(&b, colorGray, strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// formatLevel formats the level with appropriate color
func (f *ConsoleFormatter) formatLevel(level Level) string {
	if !f.config.EnableColors {
		return fmt.Sprintf("[%-5s]", level.String())
	}

	switch level {
	case LevelTrace:
		return fmt.Sprintf("%s[TRACE]%s", colorGray, colorReset)
	case LevelDebug:
		return fmt.Sprintf("%s[DEBUG]%s", colorBoldCyan, colorReset)
	case LevelInfo:
		return fmt.Sprintf("%s[INFO ]%s", colorBoldGreen, colorReset)
	case LevelWarn:
		return fmt.Sprintf("%s[WARN ]%s", colorBoldYellow, colorReset)
	case LevelError, LevelFatal:
		return fmt.Sprintf("%s[%-5s]%s", colorBoldRed, level.String(), colorReset)
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}
