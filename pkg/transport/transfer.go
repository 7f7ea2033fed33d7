package transport

// NodeID addresses one node on the bus.
type NodeID uint16

// TransferID identifies one logical transfer within the scope of a port.
type TransferID uint64

// PublisherTransfer is an outbound message. The caller constructs it, hands
// it to Publisher.Publish and must not mutate it afterwards. Loopback
// requests that the transport also deliver the transfer to local
// subscribers of the same subject.
type PublisherTransfer struct {
	Priority   Priority
	TransferID TransferID
	Payload    FragmentedPayload
	Loopback   bool
}

// SubscriberTransfer is an inbound message. PublisherNodeID is nil for
// anonymous transfers. Loopback marks transfers that originated locally.
type SubscriberTransfer struct {
	Timestamp       Timestamp
	TransferID      TransferID
	PublisherNodeID *NodeID
	Payload         FragmentedPayload
	Loopback        bool
}

// ClientRequest is an outbound service request.
type ClientRequest struct {
	Priority   Priority
	TransferID TransferID
	Payload    FragmentedPayload
}

// ClientResponse is the inbound answer to a ClientRequest.
type ClientResponse struct {
	Timestamp Timestamp
	Payload   FragmentedPayload
}

// ServerTransactionMetadata correlates a response with the in-flight
// transaction it answers. The underlying transport routes the response to
// the correct client using exactly these fields, so a ServerResponse must
// echo the metadata of the ServerRequest it answers unmodified.
type ServerTransactionMetadata struct {
	Priority     Priority
	TransferID   TransferID
	ClientNodeID NodeID
}

// ServerRequest is an inbound service request as seen by a Server port.
type ServerRequest struct {
	Timestamp Timestamp
	Metadata  ServerTransactionMetadata
	Payload   FragmentedPayload
}

// ServerResponse is the outbound answer to a ServerRequest.
type ServerResponse struct {
	Metadata ServerTransactionMetadata
	Payload  FragmentedPayload
}
