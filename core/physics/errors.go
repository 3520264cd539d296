package physics

import (
	"fmt"

	"github.com/kilianp07/wssim/core/events"
)

// TypeMismatchError is returned when a handler receives an event of a kind
// it does not own. It indicates a registration bug.
type TypeMismatchError struct {
	Handler string
	Want    events.Kind
	Got     events.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s handler cannot process %s event (want %s)", e.Handler, e.Got, e.Want)
}
