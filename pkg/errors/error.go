package errors

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Error interface {
	error
	Fatal() bool
	Temporary() bool
	Code() int
	Reason() string
	Caller() string
	Log(logger *log.Logger)
}

func NonFatalError(code int, reason string, caller string) Error {
	return &genericErr{
		fatal:     false,
		temporary: false,
		code:      code,
		reason:    reason,
		caller:    caller,
	}
}

func FatalError(code int, reason string, caller string) Error {
	return &genericErr{
		fatal:     true,
		temporary: false,
		code:      code,
		reason:    reason,
		caller:    caller,
	}
}

func TemporaryError(code int, reason string, caller string) Error {
	return &genericErr{
		fatal:     false,
		temporary: true,
		code:      code,
		reason:    reason,
		caller:    caller,
	}
}

type genericErr struct {
	fatal     bool
	temporary bool
	code      int
	reason    string
	caller    string
}

// Log writes the error to logger, or to the standard logrus logger when logger is nil.
// Fatal errors are logged at error level, everything else as a warning.
func (err *genericErr) Log(logger *log.Logger) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if err.fatal {
		logger.Errorf("[%s]: Error type: %d, Reason: %s", err.Caller(), err.Code(), err.Reason())
		return
	}
	logger.Warnf("[%s]: Error type: %d, Reason: %s", err.Caller(), err.Code(), err.Reason())
}

func (err *genericErr) Error() string {
	return fmt.Sprintf("%s: %d %s", err.caller, err.code, err.reason)
}

func (err *genericErr) Fatal() bool {
	return err.fatal
}

func (err *genericErr) Temporary() bool {
	return err.temporary
}

func (err *genericErr) Code() int {
	return err.code
}

func (err *genericErr) Caller() string {
	return err.caller
}

func (err *genericErr) Reason() string {
	return err.reason
}
