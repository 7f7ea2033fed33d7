// Package loopback implements an in-process Transport: transfers published
// or requested on it are delivered to ports of the same instance without
// touching any physical medium. It is the reference implementation of the
// port contract and the default test double for higher layers.
//
// Delivery is always local by construction; the Loopback flag of a
// published transfer is carried through to the subscriber side unchanged so
// callers can tell explicitly requested loopback apart.
package loopback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"meshbus/pkg/transport"
)

var errTransportClosed = errors.New("loopback: transport closed")

type closer interface {
	Close(ctx context.Context) error
}

type pendingKey struct {
	serviceID  int
	clientNode transport.NodeID
	transferID transport.TransferID
}

// Transport is an in-process bus for a single node id.
type Transport struct {
	nodeID transport.NodeID

	mu      sync.Mutex
	closed  bool
	subs    map[int]map[*subscriber]struct{}
	servers map[int]*server
	pending map[pendingKey]chan transport.ClientResponse
	ports   map[closer]struct{}

	capMu    sync.RWMutex
	handlers []transport.CaptureHandler
}

// New creates a loopback transport addressed as nodeID.
func New(nodeID transport.NodeID) *Transport {
	return &Transport{
		nodeID:  nodeID,
		subs:    make(map[int]map[*subscriber]struct{}),
		servers: make(map[int]*server),
		pending: make(map[pendingKey]chan transport.ClientResponse),
		ports:   make(map[closer]struct{}),
	}
}

func (t *Transport) LocalNodeID() transport.NodeID { return t.nodeID }

// BeginCapture registers h for all subsequent transfer events. Handlers
// run synchronously on the transfer path and last for the transport's
// lifetime.
func (t *Transport) BeginCapture(h transport.CaptureHandler) {
	t.capMu.Lock()
	defer t.capMu.Unlock()
	t.handlers = append(t.handlers, h)
}

func (t *Transport) emit(c transport.Capture) {
	t.capMu.RLock()
	defer t.capMu.RUnlock()
	for _, h := range t.handlers {
		h(c)
	}
}

func (t *Transport) NewPublisher(_ context.Context, ds transport.MessageDataSpecifier, cap transport.MessageCapacity) (transport.Publisher, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errTransportClosed
	}
	p := &publisher{t: t, ds: ds, cap: cap, done: make(chan struct{})}
	t.ports[p] = struct{}{}
	return p, nil
}

func (t *Transport) NewSubscriber(_ context.Context, ds transport.MessageDataSpecifier, cap transport.MessageCapacity) (transport.Subscriber, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errTransportClosed
	}
	s := &subscriber{t: t, ds: ds, cap: cap, q: prioQueue[transport.SubscriberTransfer](), done: make(chan struct{})}
	if t.subs[ds.SubjectID] == nil {
		t.subs[ds.SubjectID] = make(map[*subscriber]struct{})
	}
	t.subs[ds.SubjectID][s] = struct{}{}
	t.ports[s] = struct{}{}
	return s, nil
}

func (t *Transport) NewClient(_ context.Context, ds transport.ServiceDataSpecifier, serverNodeID transport.NodeID, cap transport.ServiceCapacity) (transport.Client, error) {
	if ds.Role != transport.RoleClient {
		return nil, fmt.Errorf("%w: client port requires a client-role specifier, got %s", transport.ErrInvalidArgument, ds)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errTransportClosed
	}
	c := &client{t: t, ds: ds, cap: cap, server: serverNodeID, done: make(chan struct{})}
	t.ports[c] = struct{}{}
	return c, nil
}

func (t *Transport) NewServer(_ context.Context, ds transport.ServiceDataSpecifier, cap transport.ServiceCapacity) (transport.Server, error) {
	if ds.Role != transport.RoleServer {
		return nil, fmt.Errorf("%w: server port requires a server-role specifier, got %s", transport.ErrInvalidArgument, ds)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errTransportClosed
	}
	if _, ok := t.servers[ds.ServiceID]; ok {
		return nil, fmt.Errorf("%w: service %d already has a server port", transport.ErrInvalidArgument, ds.ServiceID)
	}
	s := &server{
		t: t, ds: ds, cap: cap,
		q:           prioQueue[transport.ServerRequest](),
		outstanding: make(map[transport.ServerTransactionMetadata]struct{}),
		done:        make(chan struct{}),
	}
	t.servers[ds.ServiceID] = s
	t.ports[s] = struct{}{}
	return s, nil
}

// Close closes every port built by this transport. Idempotent; close
// failures are aggregated, not swallowed.
func (t *Transport) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	open := make([]closer, 0, len(t.ports))
	for p := range t.ports {
		open = append(open, p)
	}
	t.mu.Unlock()

	var err error
	for _, p := range open {
		err = multierr.Append(err, p.Close(ctx))
	}
	return err
}

func (t *Transport) removePort(p closer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ports, p)
}

// subscribersOf snapshots the delivery set for a subject.
func (t *Transport) subscribersOf(subjectID int) []*subscriber {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.subs[subjectID]
	out := make([]*subscriber, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

func (t *Transport) serverOf(serviceID int) *server {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.servers[serviceID]
}

func (t *Transport) registerPending(k pendingKey) (chan transport.ClientResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errTransportClosed
	}
	if _, dup := t.pending[k]; dup {
		return nil, fmt.Errorf("%w: transfer id %d already in flight on service %d",
			transport.ErrInvalidArgument, k.transferID, k.serviceID)
	}
	ch := make(chan transport.ClientResponse, 1)
	t.pending[k] = ch
	return ch, nil
}

func (t *Transport) unregisterPending(k pendingKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, k)
}

func (t *Transport) takePending(k pendingKey) chan transport.ClientResponse {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := t.pending[k]
	delete(t.pending, k)
	return ch
}
