package transport

import "time"

// monoEpoch anchors the monotonic readings of all timestamps produced by
// this process. The absolute value is meaningless across processes; only
// differences are.
var monoEpoch = time.Now()

// Timestamp is a dual-clock capture attached to received data: Wall follows
// the system clock (subject to adjustments, suitable for display), Mono
// never decreases (suitable for timeout and latency measurement). Both are
// read together at the moment the transport accepts the data.
type Timestamp struct {
	Wall time.Time
	Mono time.Duration
}

// Now captures both clocks.
func Now() Timestamp {
	now := time.Now()
	return Timestamp{Wall: now, Mono: now.Sub(monoEpoch)}
}

// IsZero reports whether t was never captured.
func (t Timestamp) IsZero() bool { return t.Wall.IsZero() && t.Mono == 0 }

// MonoSince returns the monotonic interval elapsed from earlier to t.
func (t Timestamp) MonoSince(earlier Timestamp) time.Duration { return t.Mono - earlier.Mono }
