package v1

import "context"

// ReadyChecker is implemented by storage backends to report readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
