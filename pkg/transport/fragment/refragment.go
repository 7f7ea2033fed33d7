// Package fragment re-chunks arbitrarily sized byte fragments into
// fixed-size ones: the mechanism every concrete transport needs to convert
// between application payloads and link-level frames.
package fragment

import (
	"fmt"

	"meshbus/pkg/transport"
)

// Source yields successive byte fragments of a logical stream. It returns
// ok == false once exhausted; after that it must keep returning false.
// Fragments of any size including zero are permitted.
type Source func() (frag []byte, ok bool)

// FromPayload adapts a fragmented payload to a Source. The returned source
// iterates the fragments once, in order.
func FromPayload(p transport.FragmentedPayload) Source {
	i := 0
	return func() ([]byte, bool) {
		if i >= len(p) {
			return nil, false
		}
		f := p[i]
		i++
		return f, true
	}
}

// Refragment returns a source producing the concatenation of src's bytes
// split into chunks of exactly chunkSize bytes, except the final chunk,
// which holds the remainder and may be shorter but never empty. An empty
// input produces no chunks at all.
//
// Copying is kept minimal: whenever a chunk can be cut from a single input
// fragment it is returned as a view into that fragment; bytes are copied
// only to glue the tail of one fragment to the head of the next. At most
// chunkSize-1 bytes of carry are held between input fragments.
//
// The result is a single-pass stream over src: the consumer may stop early
// at any point, but the stream is not restartable.
//
// chunkSize < 1 fails with transport.ErrInvalidArgument before any input
// is consumed.
func Refragment(src Source, chunkSize int) (Source, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size %d", transport.ErrInvalidArgument, chunkSize)
	}
	r := &refragmenter{src: src, chunk: chunkSize}
	return r.next, nil
}

type refragmenter struct {
	src   Source
	chunk int
	cur   []byte // unconsumed remainder of the current input fragment
	carry []byte // glued bytes awaiting completion, len < chunk
	done  bool
}

func (r *refragmenter) next() ([]byte, bool) {
	if r.done {
		return nil, false
	}
	for {
		if len(r.carry) == 0 {
			// Aligned fast path: cut a whole chunk out of the current
			// fragment without copying.
			if len(r.cur) >= r.chunk {
				out := r.cur[:r.chunk:r.chunk]
				r.cur = r.cur[r.chunk:]
				return out, true
			}
			// Short tail. Whether it is the final chunk or the head of a
			// glue depends on whether more input follows, so pull first.
			nxt, ok := r.pull()
			if !ok {
				r.done = true
				if len(r.cur) == 0 {
					return nil, false
				}
				out := r.cur
				r.cur = nil
				return out, true
			}
			if len(r.cur) > 0 {
				r.carry = append(make([]byte, 0, r.chunk), r.cur...)
			}
			r.cur = nxt
			continue
		}
		// Glue path: top up the carry from the current fragment.
		need := r.chunk - len(r.carry)
		if len(r.cur) >= need {
			out := append(r.carry, r.cur[:need]...)
			r.cur = r.cur[need:]
			r.carry = nil
			return out, true
		}
		r.carry = append(r.carry, r.cur...)
		r.cur = nil
		nxt, ok := r.pull()
		if !ok {
			r.done = true
			out := r.carry
			r.carry = nil
			return out, true
		}
		r.cur = nxt
	}
}

func (r *refragmenter) pull() ([]byte, bool) {
	if r.src == nil {
		return nil, false
	}
	return r.src()
}

// Collect drains a source into a slice. Intended for tests and small
// payloads; it defeats the streaming property.
func Collect(src Source) [][]byte {
	var out [][]byte
	for {
		f, ok := src()
		if !ok {
			return out
		}
		out = append(out, f)
	}
}
