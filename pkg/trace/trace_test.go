package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"meshbus/pkg/codec"
	"meshbus/pkg/transport"
)

func sampleCapture(t *testing.T) transport.Capture {
	t.Helper()
	ds, err := transport.NewMessageDataSpecifier(100)
	if err != nil {
		t.Fatalf("specifier: %v", err)
	}
	node := transport.NodeID(5)
	return transport.Capture{
		Timestamp:    transport.Now(),
		Direction:    transport.DirectionRx,
		Specifier:    ds,
		Priority:     transport.PriorityFast,
		TransferID:   33,
		RemoteNodeID: &node,
		Payload:      transport.FragmentedPayload{[]byte("ab"), []byte("cd")},
	}
}

func TestRecordFromCapture(t *testing.T) {
	r := FromCapture(sampleCapture(t))
	if r.Specifier != "message:100" || r.Direction != "rx" || r.Priority != "fast" {
		t.Fatalf("record: %+v", r)
	}
	if r.TransferID != 33 || r.Size != 4 || !bytes.Equal(r.Payload, []byte("abcd")) {
		t.Fatalf("record: %+v", r)
	}
	if r.RemoteNode == nil || *r.RemoteNode != 5 {
		t.Fatalf("remote node: %v", r.RemoteNode)
	}
}

func TestSinkWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, codec.JSON())
	h := sink.Handler()
	h(sampleCapture(t))
	h(sampleCapture(t))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}
	var r Record
	if err := json.Unmarshal([]byte(lines[0]), &r); err != nil {
		t.Fatalf("line not valid JSON: %v", err)
	}
	if r.Specifier != "message:100" {
		t.Fatalf("decoded record: %+v", r)
	}
}

func TestSinkCBOR(t *testing.T) {
	c, err := codec.CBOR()
	if err != nil {
		t.Fatalf("cbor: %v", err)
	}
	var buf bytes.Buffer
	sink := NewSink(&buf, c)
	if err := sink.Write(FromCapture(sampleCapture(t))); err != nil {
		t.Fatalf("write: %v", err)
	}
	var r Record
	if err := c.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.TransferID != 33 {
		t.Fatalf("decoded record: %+v", r)
	}
}
