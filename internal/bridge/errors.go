package bridge

import "fmt"

// TransportError wraps a failed exchange with the panel or a failed read from
// the simulator socket. It is fatal: Run returns it and the bridge stops.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bridge: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
