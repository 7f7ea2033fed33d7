package transport

// FragmentedPayload is a finite ordered sequence of byte-buffer views that
// together form one logical payload. Fragments may have any size including
// zero; an empty sequence is a zero-length payload. The views are read-only
// by convention: once handed to a port operation the caller must not mutate
// them.
type FragmentedPayload [][]byte

// Size returns the total payload length in bytes.
func (p FragmentedPayload) Size() int {
	var n int
	for _, f := range p {
		n += len(f)
	}
	return n
}

// Join flattens the fragments into a single contiguous buffer. A payload of
// zero total length yields nil.
func (p FragmentedPayload) Join() []byte {
	n := p.Size()
	if n == 0 {
		return nil
	}
	out := make([]byte, 0, n)
	for _, f := range p {
		out = append(out, f...)
	}
	return out
}
