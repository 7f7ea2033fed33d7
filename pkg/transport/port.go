package transport

import (
	"context"
	"time"
)

// MessageCapacity declares the maximum payload a message port expects to
// carry. It sizes transport buffers; enforcement is a transport concern,
// not a port-layer one.
type MessageCapacity struct {
	MaxPayload int
}

// ServiceCapacity declares the request/response payload maxima of a
// service port. Declarative only, like MessageCapacity.
type ServiceCapacity struct {
	MaxRequest  int
	MaxResponse int
}

// Port is the contract shared by all four port kinds. A port's specifier
// is fixed for its lifetime. Close releases the underlying resources, is
// idempotent, and promptly unblocks any operation suspended on the port.
// A port instance expects at most one concurrent reader and one writer;
// cross-port multiplexing is the owning Transport's job.
type Port interface {
	Close(ctx context.Context) error
}

// MessagePort is a port bound to a pub/sub subject.
type MessagePort interface {
	Port
	Specifier() MessageDataSpecifier
	Capacity() MessageCapacity
}

// ServicePort is a port bound to one side of a service.
type ServicePort interface {
	Port
	Specifier() ServiceDataSpecifier
	Capacity() ServiceCapacity
}

// Publisher emits message transfers on its subject. Publish may block while
// the outbound resource is backpressured; a transfer it accepted is never
// silently dropped.
type Publisher interface {
	MessagePort
	Publish(ctx context.Context, tr PublisherTransfer) error
}

// Subscriber receives message transfers on its subject.
type Subscriber interface {
	MessagePort
	// Receive blocks until a transfer arrives, the port is closed
	// (ErrPortClosed), or ctx is done (ctx.Err()).
	Receive(ctx context.Context) (SubscriberTransfer, error)
	// TryReceive blocks at most timeout and returns nil, nil on expiry;
	// absence of data within the window is not an error.
	TryReceive(ctx context.Context, timeout time.Duration) (*SubscriberTransfer, error)
}

// Client issues requests to the one server node it was bound to at
// construction.
type Client interface {
	ServicePort
	ServerNodeID() NodeID
	// TryRequest sends the request and waits at most timeout for the
	// response. nil, nil means no response arrived in time, which is a
	// normal outcome in best-effort request/response.
	TryRequest(ctx context.Context, req ClientRequest, timeout time.Duration) (*ClientResponse, error)
}

// Server receives requests and sends correlated responses.
type Server interface {
	ServicePort
	// Listen blocks until a request arrives or the port closes.
	Listen(ctx context.Context) (*ServerRequest, error)
	// TryListen blocks at most timeout and returns nil, nil on expiry.
	TryListen(ctx context.Context, timeout time.Duration) (*ServerRequest, error)
	// Respond answers a previously received request. The response metadata
	// must match that request's metadata exactly; a mismatch is a caller
	// contract violation (ErrInvalidArgument).
	Respond(ctx context.Context, resp ServerResponse) error
}
