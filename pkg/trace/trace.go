// Package trace converts transport capture events into encoded diagnostic
// records. A Sink can be plugged into any transport implementing
// transport.Capturer.
package trace

import (
	"io"
	"sync"
	"time"

	"meshbus/pkg/codec"
	"meshbus/pkg/transport"
)

// Record is the serializable form of one transport.Capture.
type Record struct {
	Wall       time.Time `json:"wall"`
	MonoNanos  int64     `json:"mono_ns"`
	Direction  string    `json:"dir"`
	Specifier  string    `json:"spec"`
	Priority   string    `json:"prio"`
	TransferID uint64    `json:"transfer_id"`
	RemoteNode *uint16   `json:"remote_node,omitempty"`
	Size       int       `json:"size"`
	Payload    []byte    `json:"payload,omitempty"`
}

// FromCapture flattens a capture into a record. The payload is copied into
// one contiguous buffer so the record stays valid after the transfer's
// fragments are reused.
func FromCapture(c transport.Capture) Record {
	r := Record{
		Wall:       c.Timestamp.Wall,
		MonoNanos:  int64(c.Timestamp.Mono),
		Direction:  c.Direction.String(),
		Priority:   c.Priority.String(),
		TransferID: uint64(c.TransferID),
		Size:       c.Payload.Size(),
		Payload:    c.Payload.Join(),
	}
	if c.Specifier != nil {
		r.Specifier = c.Specifier.String()
	}
	if c.RemoteNodeID != nil {
		n := uint16(*c.RemoteNodeID)
		r.RemoteNode = &n
	}
	return r
}

// Sink encodes records with a codec and appends them to a writer. JSON
// records are newline-delimited; CBOR items are self-delimiting and
// written back to back. Safe for concurrent handlers.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
	c  codec.Codec
}

func NewSink(w io.Writer, c codec.Codec) *Sink { return &Sink{w: w, c: c} }

// Handler returns a capture handler feeding this sink. Encoding or write
// failures drop the record; diagnostics must never disturb the transfer
// path.
func (s *Sink) Handler() transport.CaptureHandler {
	return func(c transport.Capture) {
		_ = s.Write(FromCapture(c))
	}
}

// Write encodes and appends one record.
func (s *Sink) Write(r Record) error {
	b, err := s.c.Marshal(r)
	if err != nil {
		return err
	}
	if s.c.Name() == "json" {
		b = append(b, '\n')
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(b)
	return err
}
