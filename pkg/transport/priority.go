package transport

// Priority is one of eight ordered transfer urgency levels shared by all
// port kinds. Only the relative order and the eight-level cardinality are
// contractual; the numeric representation is internal and must not be put
// on the wire or persisted.
type Priority uint8

const (
	PriorityExceptional Priority = iota
	PriorityImmediate
	PriorityFast
	PriorityHigh
	PriorityNominal
	PriorityLow
	PrioritySlow
	PriorityOptional

	// PriorityLevels is the contractual cardinality, usable for lookup
	// table sizing.
	PriorityLevels = int(PriorityOptional) + 1
)

func (p Priority) String() string {
	switch p {
	case PriorityExceptional:
		return "exceptional"
	case PriorityImmediate:
		return "immediate"
	case PriorityFast:
		return "fast"
	case PriorityHigh:
		return "high"
	case PriorityNominal:
		return "nominal"
	case PriorityLow:
		return "low"
	case PrioritySlow:
		return "slow"
	case PriorityOptional:
		return "optional"
	default:
		return "invalid"
	}
}

// Valid reports whether p is one of the eight defined levels.
func (p Priority) Valid() bool { return int(p) < PriorityLevels }

// MoreUrgent reports whether p outranks o.
func (p Priority) MoreUrgent(o Priority) bool { return p < o }

// Compare returns negative when p is more urgent than o, zero when equal.
func (p Priority) Compare(o Priority) int { return int(p) - int(o) }
