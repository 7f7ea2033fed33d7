package transport

import "fmt"

// Valid closed ranges for specifier numeric identifiers.
const (
	SubjectIDMax = 32767
	ServiceIDMax = 511
)

// Role distinguishes the two sides of a service exchange. A client and a
// server over the same service id bind to different local port kinds.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "unknown"
	}
}

// DataSpecifier identifies a logical communication channel. It is a pure
// identity value: no I/O state, freely copyable across components. The two
// variants are MessageDataSpecifier and ServiceDataSpecifier.
type DataSpecifier interface {
	fmt.Stringer
	// sortKey defines the total order: messages before services, then by
	// id, then by role. Sealed: only the two in-package variants exist.
	sortKey() (variant, id, role int)
}

// MessageDataSpecifier identifies a publish/subscribe subject.
type MessageDataSpecifier struct {
	SubjectID int
}

// NewMessageDataSpecifier validates the subject id range.
func NewMessageDataSpecifier(subjectID int) (MessageDataSpecifier, error) {
	if subjectID < 0 || subjectID > SubjectIDMax {
		return MessageDataSpecifier{}, &OutOfRangeError{Field: "subject id", Value: subjectID, Min: 0, Max: SubjectIDMax}
	}
	return MessageDataSpecifier{SubjectID: subjectID}, nil
}

func (d MessageDataSpecifier) String() string { return fmt.Sprintf("message:%d", d.SubjectID) }

func (d MessageDataSpecifier) sortKey() (int, int, int) { return 0, d.SubjectID, 0 }

// ServiceDataSpecifier identifies one side of a request/response exchange.
type ServiceDataSpecifier struct {
	ServiceID int
	Role      Role
}

// NewServiceDataSpecifier validates the service id range.
func NewServiceDataSpecifier(serviceID int, role Role) (ServiceDataSpecifier, error) {
	if serviceID < 0 || serviceID > ServiceIDMax {
		return ServiceDataSpecifier{}, &OutOfRangeError{Field: "service id", Value: serviceID, Min: 0, Max: ServiceIDMax}
	}
	return ServiceDataSpecifier{ServiceID: serviceID, Role: role}, nil
}

func (d ServiceDataSpecifier) String() string {
	return fmt.Sprintf("service:%d:%s", d.ServiceID, d.Role)
}

func (d ServiceDataSpecifier) sortKey() (int, int, int) { return 1, d.ServiceID, int(d.Role) }

// CompareSpecifiers orders two specifiers: negative when a sorts before b,
// zero when equal, positive otherwise.
func CompareSpecifiers(a, b DataSpecifier) int {
	av, ai, ar := a.sortKey()
	bv, bi, br := b.sortKey()
	if av != bv {
		return av - bv
	}
	if ai != bi {
		return ai - bi
	}
	return ar - br
}
