package gpublas

import "github.com/samcharles93/gpublas/internal/logger"

// StatusCheck is invoked synchronously after every backend call with the
// operation name and the status it produced, including StatusSuccess. A hook
// may panic to abort the caller.
type StatusCheck func(op string, st Status)

// PanicOnFailure turns every non-success status into a panic carrying a
// *StatusError.
func PanicOnFailure(op string, st Status) {
	if st != StatusSuccess {
		panic(&StatusError{Op: op, Status: st})
	}
}

// LogFailures returns a hook that logs non-success statuses at warn level.
func LogFailures(log logger.Logger) StatusCheck {
	return func(op string, st Status) {
		if st == StatusSuccess {
			return
		}
		log.Warn("blas call failed", "op", op, "status", st.String(), "kind", st.Kind().String())
	}
}

// Chain runs hooks in order. Nil hooks are skipped.
func Chain(hooks ...StatusCheck) StatusCheck {
	return func(op string, st Status) {
		for _, h := range hooks {
			if h != nil {
				h(op, st)
			}
		}
	}
}

// Recover converts a panic raised by PanicOnFailure back into an error. Use
// it as `defer gpublas.Recover(&err)`; other panics are re-raised.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if se, ok := r.(*StatusError); ok {
		*err = se
		return
	}
	panic(r)
}
