package codec

import (
	"bytes"
	"testing"
)

type sample struct {
	Name string `json:"name"`
	N    int    `json:"n"`
	Blob []byte `json:"blob,omitempty"`
}

func TestJSONRoundtrip(t *testing.T) {
	reg := NewRegistry()
	c := reg.Get("json")
	if c == nil {
		t.Fatalf("json codec missing from fresh registry")
	}
	in := sample{Name: "x", N: 7, Blob: []byte{1, 2, 3}}
	b, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out sample
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Name != in.Name || out.N != in.N || !bytes.Equal(out.Blob, in.Blob) {
		t.Fatalf("roundtrip mismatch: %+v", out)
	}
}

func TestCBORRoundtrip(t *testing.T) {
	c, err := CBOR()
	if err != nil {
		t.Fatalf("cbor: %v", err)
	}
	reg := NewRegistry()
	reg.Register(c)
	if reg.Get("cbor") == nil {
		t.Fatalf("cbor not registered")
	}

	in := sample{Name: "y", N: -1, Blob: bytes.Repeat([]byte{0xAA}, 16)}
	b, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out sample
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Name != in.Name || out.N != in.N || !bytes.Equal(out.Blob, in.Blob) {
		t.Fatalf("roundtrip mismatch: %+v", out)
	}
}

func TestCBORDeterministic(t *testing.T) {
	c, err := CBOR()
	if err != nil {
		t.Fatalf("cbor: %v", err)
	}
	in := map[string]int{"b": 2, "a": 1, "c": 3}
	x, _ := c.Marshal(in)
	y, _ := c.Marshal(in)
	if !bytes.Equal(x, y) {
		t.Fatalf("canonical encoding must be stable")
	}
}

func TestRegistryUnknown(t *testing.T) {
	if NewRegistry().Get("nope") != nil {
		t.Fatalf("unknown codec must be nil")
	}
}
