// internal/logger/logger.go
package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	level  = logrus.InfoLevel
	format = "text"
)

// Configure sets the level and output format used by loggers created afterwards
// and by the ones already handed out. Unknown levels fall back to info.
func Configure(lvl, fmtName string) {
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(lvl)))
	if err != nil {
		parsed = logrus.InfoLevel
	}

	mu.Lock()
	level = parsed
	format = strings.ToLower(strings.TrimSpace(fmtName))
	mu.Unlock()

	for _, l := range registry() {
		apply(l)
	}
}

var (
	createdMu sync.Mutex
	created   []*logrus.Logger
)

func registry() []*logrus.Logger {
	createdMu.Lock()
	defer createdMu.Unlock()
	out := make([]*logrus.Logger, len(created))
	copy(out, created)
	return out
}

func apply(l *logrus.Logger) {
	mu.RLock()
	defer mu.RUnlock()
	l.SetLevel(level)
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// NewLogger returns a logrus logger writing to stdout with the configured level and format.
func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	apply(l)

	createdMu.Lock()
	created = append(created, l)
	createdMu.Unlock()
	return l
}
