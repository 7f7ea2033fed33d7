package loopback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meshbus/pkg/transport"
	"meshbus/pkg/transport/prioq"
)

// Inbound queues are unbounded: a publisher must never have an accepted
// transfer silently dropped, and the loopback path has no link-level
// backpressure to propagate.
func prioQueue[T any]() *prioq.Queue[T] { return prioq.New[T](0) }

// ---- Publisher ----

type publisher struct {
	t         *Transport
	ds        transport.MessageDataSpecifier
	cap       transport.MessageCapacity
	done      chan struct{}
	closeOnce sync.Once
}

func (p *publisher) Specifier() transport.MessageDataSpecifier { return p.ds }
func (p *publisher) Capacity() transport.MessageCapacity       { return p.cap }

func (p *publisher) Publish(_ context.Context, tr transport.PublisherTransfer) error {
	select {
	case <-p.done:
		return transport.ErrPortClosed
	default:
	}
	if !tr.Priority.Valid() {
		return fmt.Errorf("%w: priority %d", transport.ErrInvalidArgument, tr.Priority)
	}
	ts := transport.Now()
	p.t.emit(transport.Capture{
		Timestamp:  ts,
		Direction:  transport.DirectionTx,
		Specifier:  p.ds,
		Priority:   tr.Priority,
		TransferID: tr.TransferID,
		Payload:    tr.Payload,
	})
	origin := p.t.nodeID
	st := transport.SubscriberTransfer{
		Timestamp:       ts,
		TransferID:      tr.TransferID,
		PublisherNodeID: &origin,
		Payload:         tr.Payload,
		Loopback:        tr.Loopback,
	}
	for _, s := range p.t.subscribersOf(p.ds.SubjectID) {
		s.deliver(tr.Priority, st)
	}
	return nil
}

func (p *publisher) Close(_ context.Context) error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.t.removePort(p)
	})
	return nil
}

// ---- Subscriber ----

type subscriber struct {
	t         *Transport
	ds        transport.MessageDataSpecifier
	cap       transport.MessageCapacity
	q         *prioq.Queue[transport.SubscriberTransfer]
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscriber) Specifier() transport.MessageDataSpecifier { return s.ds }
func (s *subscriber) Capacity() transport.MessageCapacity       { return s.cap }

func (s *subscriber) deliver(p transport.Priority, st transport.SubscriberTransfer) {
	select {
	case <-s.done:
		return
	default:
	}
	s.t.emit(transport.Capture{
		Timestamp:    st.Timestamp,
		Direction:    transport.DirectionRx,
		Specifier:    s.ds,
		Priority:     p,
		TransferID:   st.TransferID,
		RemoteNodeID: st.PublisherNodeID,
		Payload:      st.Payload,
	})
	s.q.Push(p, st)
}

func (s *subscriber) Receive(ctx context.Context) (transport.SubscriberTransfer, error) {
	for {
		if st, ok := s.q.Pop(); ok {
			return st, nil
		}
		select {
		case <-s.done:
			// drain anything that raced with the close
			if st, ok := s.q.Pop(); ok {
				return st, nil
			}
			return transport.SubscriberTransfer{}, transport.ErrPortClosed
		case <-ctx.Done():
			return transport.SubscriberTransfer{}, ctx.Err()
		case <-s.q.Ready():
		}
	}
}

func (s *subscriber) TryReceive(ctx context.Context, timeout time.Duration) (*transport.SubscriberTransfer, error) {
	if timeout < 0 {
		timeout = 0
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if st, ok := s.q.Pop(); ok {
			return &st, nil
		}
		select {
		case <-s.done:
			if st, ok := s.q.Pop(); ok {
				return &st, nil
			}
			return nil, transport.ErrPortClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, nil
		case <-s.q.Ready():
		}
	}
}

func (s *subscriber) Close(_ context.Context) error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.t.mu.Lock()
		if set := s.t.subs[s.ds.SubjectID]; set != nil {
			delete(set, s)
			if len(set) == 0 {
				delete(s.t.subs, s.ds.SubjectID)
			}
		}
		delete(s.t.ports, s)
		s.t.mu.Unlock()
	})
	return nil
}

// ---- Client ----

type client struct {
	t         *Transport
	ds        transport.ServiceDataSpecifier
	cap       transport.ServiceCapacity
	server    transport.NodeID
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) Specifier() transport.ServiceDataSpecifier { return c.ds }
func (c *client) Capacity() transport.ServiceCapacity       { return c.cap }
func (c *client) ServerNodeID() transport.NodeID            { return c.server }

func (c *client) TryRequest(ctx context.Context, req transport.ClientRequest, timeout time.Duration) (*transport.ClientResponse, error) {
	select {
	case <-c.done:
		return nil, transport.ErrPortClosed
	default:
	}
	if !req.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority %d", transport.ErrInvalidArgument, req.Priority)
	}
	key := pendingKey{serviceID: c.ds.ServiceID, clientNode: c.t.nodeID, transferID: req.TransferID}
	ch, err := c.t.registerPending(key)
	if err != nil {
		return nil, err
	}
	defer c.t.unregisterPending(key)

	ts := transport.Now()
	remote := c.server
	c.t.emit(transport.Capture{
		Timestamp:    ts,
		Direction:    transport.DirectionTx,
		Specifier:    c.ds,
		Priority:     req.Priority,
		TransferID:   req.TransferID,
		RemoteNodeID: &remote,
		Payload:      req.Payload,
	})

	// Loopback reaches only the local node; a request addressed elsewhere
	// simply gets no response.
	if c.server == c.t.nodeID {
		if srv := c.t.serverOf(c.ds.ServiceID); srv != nil {
			srv.deliver(transport.ServerRequest{
				Timestamp: ts,
				Metadata: transport.ServerTransactionMetadata{
					Priority:     req.Priority,
					TransferID:   req.TransferID,
					ClientNodeID: c.t.nodeID,
				},
				Payload: req.Payload,
			})
		}
	}

	if timeout < 0 {
		timeout = 0
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case resp := <-ch:
		return &resp, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, transport.ErrPortClosed
	}
}

func (c *client) Close(_ context.Context) error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.t.removePort(c)
	})
	return nil
}

// ---- Server ----

type server struct {
	t   *Transport
	ds  transport.ServiceDataSpecifier
	cap transport.ServiceCapacity
	q   *prioq.Queue[transport.ServerRequest]

	omu         sync.Mutex
	outstanding map[transport.ServerTransactionMetadata]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func (s *server) Specifier() transport.ServiceDataSpecifier { return s.ds }
func (s *server) Capacity() transport.ServiceCapacity       { return s.cap }

func (s *server) deliver(req transport.ServerRequest) {
	select {
	case <-s.done:
		return
	default:
	}
	client := req.Metadata.ClientNodeID
	s.t.emit(transport.Capture{
		Timestamp:    req.Timestamp,
		Direction:    transport.DirectionRx,
		Specifier:    s.ds,
		Priority:     req.Metadata.Priority,
		TransferID:   req.Metadata.TransferID,
		RemoteNodeID: &client,
		Payload:      req.Payload,
	})
	s.q.Push(req.Metadata.Priority, req)
}

// accept records the transaction so Respond can verify the echo later.
func (s *server) accept(req transport.ServerRequest) *transport.ServerRequest {
	s.omu.Lock()
	s.outstanding[req.Metadata] = struct{}{}
	s.omu.Unlock()
	return &req
}

func (s *server) Listen(ctx context.Context) (*transport.ServerRequest, error) {
	for {
		if req, ok := s.q.Pop(); ok {
			return s.accept(req), nil
		}
		select {
		case <-s.done:
			if req, ok := s.q.Pop(); ok {
				return s.accept(req), nil
			}
			return nil, transport.ErrPortClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.q.Ready():
		}
	}
}

func (s *server) TryListen(ctx context.Context, timeout time.Duration) (*transport.ServerRequest, error) {
	if timeout < 0 {
		timeout = 0
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if req, ok := s.q.Pop(); ok {
			return s.accept(req), nil
		}
		select {
		case <-s.done:
			if req, ok := s.q.Pop(); ok {
				return s.accept(req), nil
			}
			return nil, transport.ErrPortClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, nil
		case <-s.q.Ready():
		}
	}
}

func (s *server) Respond(_ context.Context, resp transport.ServerResponse) error {
	select {
	case <-s.done:
		return transport.ErrPortClosed
	default:
	}
	s.omu.Lock()
	_, ok := s.outstanding[resp.Metadata]
	if ok {
		delete(s.outstanding, resp.Metadata)
	}
	s.omu.Unlock()
	if !ok {
		return fmt.Errorf("%w: response metadata %+v does not match an outstanding request",
			transport.ErrInvalidArgument, resp.Metadata)
	}

	ts := transport.Now()
	client := resp.Metadata.ClientNodeID
	s.t.emit(transport.Capture{
		Timestamp:    ts,
		Direction:    transport.DirectionTx,
		Specifier:    s.ds,
		Priority:     resp.Metadata.Priority,
		TransferID:   resp.Metadata.TransferID,
		RemoteNodeID: &client,
		Payload:      resp.Payload,
	})

	key := pendingKey{serviceID: s.ds.ServiceID, clientNode: resp.Metadata.ClientNodeID, transferID: resp.Metadata.TransferID}
	if ch := s.t.takePending(key); ch != nil {
		select {
		case ch <- transport.ClientResponse{Timestamp: ts, Payload: resp.Payload}:
		default:
		}
	}
	// No waiter means the client gave up; the response is dropped, which
	// is normal in best-effort request/response.
	return nil
}

func (s *server) Close(_ context.Context) error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.t.mu.Lock()
		if s.t.servers[s.ds.ServiceID] == s {
			delete(s.t.servers, s.ds.ServiceID)
		}
		delete(s.t.ports, s)
		s.t.mu.Unlock()
	})
	return nil
}
