package fragment

import (
	"bytes"
	"errors"
	"testing"

	"meshbus/pkg/transport"
)

func refragmentAll(t *testing.T, frags [][]byte, chunk int) [][]byte {
	t.Helper()
	src, err := Refragment(FromPayload(frags), chunk)
	if err != nil {
		t.Fatalf("refragment: %v", err)
	}
	return Collect(src)
}

func TestAlignedSplitNoCopy(t *testing.T) {
	in := [][]byte{[]byte("012345"), []byte("6789")}
	out := refragmentAll(t, in, 6)
	if len(out) != 2 || !bytes.Equal(out[0], []byte("012345")) || !bytes.Equal(out[1], []byte("6789")) {
		t.Fatalf("got %q", out)
	}
	// aligned chunks must be views into the inputs, not copies
	if &out[0][0] != &in[0][0] {
		t.Fatalf("first chunk was copied")
	}
	if &out[1][0] != &in[1][0] {
		t.Fatalf("tail chunk was copied")
	}
}

func TestUnalignedSplit(t *testing.T) {
	out := refragmentAll(t, [][]byte{[]byte("012345"), []byte("6789")}, 3)
	want := [][]byte{[]byte("012"), []byte("345"), []byte("678"), []byte("9")}
	if len(out) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(out), len(want))
	}
	for i := range want {
		if !bytes.Equal(out[i], want[i]) {
			t.Fatalf("chunk %d = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestBytePreservationAndShape(t *testing.T) {
	cases := [][][]byte{
		{},
		{[]byte("")},
		{nil, nil, nil},
		{[]byte("a")},
		{[]byte("a"), []byte("b"), []byte("c")},
		{[]byte("hello"), nil, []byte("world"), []byte("!")},
		{bytes.Repeat([]byte{0xAA}, 1000)},
		{bytes.Repeat([]byte{1}, 7), bytes.Repeat([]byte{2}, 13), bytes.Repeat([]byte{3}, 1)},
	}
	for ci, frags := range cases {
		var whole []byte
		for _, f := range frags {
			whole = append(whole, f...)
		}
		for chunk := 1; chunk <= 17; chunk++ {
			out := refragmentAll(t, frags, chunk)

			var got []byte
			for _, c := range out {
				got = append(got, c...)
			}
			if !bytes.Equal(got, whole) {
				t.Fatalf("case %d chunk %d: bytes not preserved", ci, chunk)
			}

			if len(whole) == 0 {
				if len(out) != 0 {
					t.Fatalf("case %d chunk %d: empty input must yield no chunks, got %d", ci, chunk, len(out))
				}
				continue
			}
			wantN := (len(whole) + chunk - 1) / chunk
			if len(out) != wantN {
				t.Fatalf("case %d chunk %d: %d chunks, want %d", ci, chunk, len(out), wantN)
			}
			for i, c := range out[:len(out)-1] {
				if len(c) != chunk {
					t.Fatalf("case %d chunk %d: chunk %d has length %d", ci, chunk, i, len(c))
				}
			}
			last := out[len(out)-1]
			if len(last) == 0 || len(last) > chunk {
				t.Fatalf("case %d chunk %d: last chunk length %d", ci, chunk, len(last))
			}
		}
	}
}

func TestInvalidChunkSize(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		pulled := false
		src := func() ([]byte, bool) { pulled = true; return []byte("x"), true }
		_, err := Refragment(src, n)
		if !errors.Is(err, transport.ErrInvalidArgument) {
			t.Fatalf("chunk %d: want ErrInvalidArgument, got %v", n, err)
		}
		if pulled {
			t.Fatalf("chunk %d: input consumed before validation", n)
		}
	}
}

func TestExactCarryFillFlushesImmediately(t *testing.T) {
	// "01" carries, "2345" completes the carried chunk and leaves an
	// aligned remainder.
	out := refragmentAll(t, [][]byte{[]byte("01"), []byte("2345")}, 4)
	if len(out) != 2 || !bytes.Equal(out[0], []byte("0123")) || !bytes.Equal(out[1], []byte("45")) {
		t.Fatalf("got %q", out)
	}
}

func TestStreamingEarlyStop(t *testing.T) {
	pulls := 0
	src := func() ([]byte, bool) {
		pulls++
		if pulls > 100 {
			return nil, false
		}
		return bytes.Repeat([]byte{9}, 10), true
	}
	re, err := Refragment(src, 10)
	if err != nil {
		t.Fatalf("refragment: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, ok := re(); !ok {
			t.Fatalf("stream ended early")
		}
	}
	// one pull per aligned chunk: the consumer stopping must stop the pulls
	if pulls > 4 {
		t.Fatalf("buffered beyond the carry: %d pulls for 3 chunks", pulls)
	}
}

func TestSinglePass(t *testing.T) {
	re, err := Refragment(FromPayload([][]byte{[]byte("abc")}), 2)
	if err != nil {
		t.Fatalf("refragment: %v", err)
	}
	got := Collect(re)
	if len(got) != 2 {
		t.Fatalf("got %d chunks", len(got))
	}
	// exhausted stream keeps reporting end
	if _, ok := re(); ok {
		t.Fatalf("exhausted stream produced a chunk")
	}
}
