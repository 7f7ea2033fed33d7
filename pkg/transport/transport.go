package transport

import "context"

// Transport constructs ports and owns their collective lifecycle. Closing a
// transport closes every port it built. All state is scoped to the
// transport/port instance graph; no global mutable state is required.
type Transport interface {
	// LocalNodeID is the address of this node on the bus.
	LocalNodeID() NodeID

	NewPublisher(ctx context.Context, ds MessageDataSpecifier, cap MessageCapacity) (Publisher, error)
	NewSubscriber(ctx context.Context, ds MessageDataSpecifier, cap MessageCapacity) (Subscriber, error)
	// NewClient requires ds.Role == RoleClient; serverNodeID is fixed for
	// the client's lifetime.
	NewClient(ctx context.Context, ds ServiceDataSpecifier, serverNodeID NodeID, cap ServiceCapacity) (Client, error)
	// NewServer requires ds.Role == RoleServer.
	NewServer(ctx context.Context, ds ServiceDataSpecifier, cap ServiceCapacity) (Server, error)

	Close(ctx context.Context) error
}
