// Package logging builds the leveled loggers used by the commands. They are
// gommon loggers, the same type echo logs through, so CLI and HTTP output
// share one format.
package logging

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

const header = `${time_rfc3339} ${level} ${prefix} ${short_file}:${line}`

// New returns a logger tagged with prefix at the level named by LOG_LEVEL.
func New(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(header)
	l.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
	return l
}

// Configure applies the same header and level to an existing logger, such
// as echo's e.Logger.
func Configure(l interface {
	SetHeader(string)
	SetLevel(log.Lvl)
}) {
	l.SetHeader(header)
	l.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps debug|info|warn|error|off to a gommon level. Anything
// else is info.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off", "none":
		return log.OFF
	}
	return log.INFO
}
