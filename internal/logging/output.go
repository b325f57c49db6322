package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

const levelFatal = "FATAL"

// formatLine renders one log line: "[ts] [LEVEL] name: msg | k=v ...".
// Fields are emitted in sorted key order so output is stable across runs.
func (l *Logger) formatLine(level, msg string, fields map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s: %s", GetTimestamp(), level, l.name, msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}

	return b.String()
}

// writeLog renders the line and routes it: ERROR and FATAL go to stderr,
// everything else to stdout.
func (l *Logger) writeLog(level, msg string, fields map[string]interface{}) {
	line := l.formatLine(level, msg, fields)
	if level == strError || level == levelFatal {
		fmt.Fprintln(os.Stderr, line)
		return
	}
	log.Println(line)
}

// logf formats a printf-style message and logs it. Context and persistent
// fields are merged the same way as for the *WithFields variants.
func (l *Logger) logf(level, msg string, args ...interface{}) {
	l.logWithFields(level, fmt.Sprintf(msg, args...))
}

// GetTimestamp returns an RFC3339 timestamp. The LOG_TIMESTAMP env var
// overrides it for deterministic test output.
func GetTimestamp() string {
	if override := os.Getenv("LOG_TIMESTAMP"); override != "" {
		return override
	}
	return time.Now().Format(time.RFC3339)
}
