package transport

// Direction tells whether a captured transfer left or entered the local
// node.
type Direction int

const (
	DirectionTx Direction = iota
	DirectionRx
)

func (d Direction) String() string {
	switch d {
	case DirectionTx:
		return "tx"
	case DirectionRx:
		return "rx"
	default:
		return "unknown"
	}
}

// Capture is one observed transport event, emitted to registered handlers
// as transfers pass through a capturing transport. RemoteNodeID carries the
// counterpart node when known: the destination for tx, the origin for rx.
type Capture struct {
	Timestamp    Timestamp
	Direction    Direction
	Specifier    DataSpecifier
	Priority     Priority
	TransferID   TransferID
	RemoteNodeID *NodeID
	Payload      FragmentedPayload
}

// CaptureHandler observes captures. Handlers are invoked synchronously on
// the transfer path and must be fast and non-blocking.
type CaptureHandler func(Capture)

// Capturer is implemented by transports that can report low-level transfer
// events for diagnostics. Handlers cannot be unregistered; capture lasts
// for the life of the transport.
type Capturer interface {
	BeginCapture(h CaptureHandler)
}
