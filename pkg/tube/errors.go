package tube

import "errors"

var (
	// ErrInvalidInput reports a polyline or option set that cannot produce a mesh.
	ErrInvalidInput = errors.New("invalid tube input")
	// ErrIndexOutOfRange reports a node index outside the polyline.
	ErrIndexOutOfRange = errors.New("node index out of range")
	// ErrPassInFlight reports an attempt to start a pass while another is running.
	ErrPassInFlight = errors.New("generation pass already in flight")
	// ErrClosed reports use of a closed Generator.
	ErrClosed = errors.New("generator closed")
)
