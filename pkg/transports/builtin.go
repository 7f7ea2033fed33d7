package transports

import (
	"fmt"

	"meshbus/pkg/transport"
	"meshbus/pkg/transport/loopback"
)

// Built-in constructors. External media register themselves the same way
// from their own packages.
func init() {
	Register("loopback", newLoopback)
}

// newLoopback accepts exactly one integer argument, the local node id:
// loopback(42).
func newLoopback(args []any) (transport.Transport, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("loopback: want 1 argument (node id), got %d", len(args))
	}
	id, ok := args[0].(int64)
	if !ok {
		return nil, fmt.Errorf("loopback: node id must be an integer, got %T", args[0])
	}
	if id < 0 || id > 0xFFFF {
		return nil, &transport.OutOfRangeError{Field: "node id", Value: int(id), Min: 0, Max: 0xFFFF}
	}
	return loopback.New(transport.NodeID(id)), nil
}
