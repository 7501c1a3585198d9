package resource

import (
	"errors"
	"fmt"

	"github.com/imamik/gkeops/internal/platform/gke"
)

// ErrKindMismatch is returned when a manager is asked to create a resource
// of a kind it does not manage. The check runs before any network call.
var ErrKindMismatch = errors.New("resource kind mismatch")

// TerminalStateError reports that a resource reached a state it cannot
// progress out of without intervention. Polling loops surface it
// immediately instead of retrying.
type TerminalStateError struct {
	Name   string
	Status gke.Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("resource %s entered terminal state %s", e.Name, e.Status)
}

// IsTerminalState reports whether err carries a TerminalStateError.
func IsTerminalState(err error) bool {
	var terminal *TerminalStateError
	return errors.As(err, &terminal)
}
