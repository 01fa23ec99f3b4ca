package artisan

import "github.com/pkg/errors"

// Configuration errors, reported by Bind or on the first invocation of a
// badly described handler.
var (
	ErrDuplicateHandler    = errors.New("duplicate handler")
	ErrInvalidHandler      = errors.New("invalid handler")
	ErrNoFactory           = errors.New("no instance factory")
	ErrDuplicateOption     = errors.New("duplicate option")
	ErrVariadicNotLast     = errors.New("variadic argument must be last")
	ErrUnresolvedParameter = errors.New("cannot resolve parameter")
)

// ErrRequired is returned when a required option or parameter has no value.
var ErrRequired = errors.New("required value missing")

// ErrUsage is returned when the command line itself cannot be parsed.
var ErrUsage = errors.New("usage error")

// ErrGracePeriodExpired is returned when a cancelled handler did not finish
// within the grace period. The handler may still be running.
var ErrGracePeriodExpired = errors.New("grace period expired")

// usageError wraps err so that it matches ErrUsage while keeping its
// message.
type usageError struct{ err error }

func (e usageError) Error() string        { return e.err.Error() }
func (e usageError) Unwrap() error        { return e.err }
func (e usageError) Is(target error) bool { return target == ErrUsage }

func usagef(format string, args ...interface{}) error {
	return usageError{errors.Errorf(format, args...)}
}
