package event

import "errors"

// ErrBusClosed reports a publish on a bus whose dispatcher has been
// shut down.
var ErrBusClosed = errors.New("event bus closed")
