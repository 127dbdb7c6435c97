//go:build cuda

package cuda

import (
	"fmt"

	"github.com/samcharles93/gpublas/internal/backend"
)

func cudaExecutionError(rec any) error {
	if recErr, ok := rec.(error); ok {
		return fmt.Errorf("cuda execution failed: %w", recErr)
	}
	return fmt.Errorf("cuda execution failed: %v", rec)
}

// recoverStatus converts a panic inside an entry point into ExecutionFailed.
func (l *Library) recoverStatus(symbol string, status *backend.Status) {
	rec := recover()
	if rec == nil {
		return
	}
	l.log.Error("entry point panicked", "symbol", symbol, "error", cudaExecutionError(rec))
	*status = backend.StatusExecutionFailed
}
