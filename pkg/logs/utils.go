package logs

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	level   = log.InfoLevel
	loggers = map[string]*log.Logger{}
	mu      sync.Mutex
)

// formatter prefixes each entry with the name of the component that owns the logger.
type formatter struct {
	owner string
	lf    log.Formatter
}

// Format satisfies the log.Formatter interface.
func (f *formatter) Format(e *log.Entry) ([]byte, error) {
	e.Message = fmt.Sprintf("[%s] %s", f.owner, e.Message)
	return f.lf.Format(e)
}

// NewLogger returns the logger for owner, creating it on first use. Callers sharing an owner
// share a logger.
func NewLogger(owner string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger, ok := loggers[owner]; ok {
		return logger
	}
	logger := log.New()
	logger.SetFormatter(&formatter{
		owner: owner,
		lf: &log.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   true,
			TimestampFormat: time.StampMilli,
		},
	})
	logger.SetLevel(level)
	loggers[owner] = logger
	return logger
}

// SetLevel changes the level of every logger handed out by NewLogger, past and future.
func SetLevel(l log.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	for _, logger := range loggers {
		logger.SetLevel(l)
	}
}

// ParseLevel is SetLevel for a level name such as "debug" or "warn".
func ParseLevel(name string) error {
	l, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	SetLevel(l)
	return nil
}
