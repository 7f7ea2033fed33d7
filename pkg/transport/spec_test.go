package transport

import (
	"errors"
	"testing"
)

func TestMessageDataSpecifierRange(t *testing.T) {
	for _, id := range []int{0, 1, 100, SubjectIDMax} {
		ds, err := NewMessageDataSpecifier(id)
		if err != nil {
			t.Fatalf("subject %d: %v", id, err)
		}
		if ds.SubjectID != id {
			t.Fatalf("subject id mismatch: %d", ds.SubjectID)
		}
	}
	for _, id := range []int{-1, SubjectIDMax + 1, 1 << 20} {
		_, err := NewMessageDataSpecifier(id)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("subject %d: want OutOfRangeError, got %v", id, err)
		}
	}
}

func TestServiceDataSpecifierRange(t *testing.T) {
	for _, id := range []int{0, 255, ServiceIDMax} {
		if _, err := NewServiceDataSpecifier(id, RoleClient); err != nil {
			t.Fatalf("service %d: %v", id, err)
		}
	}
	for _, id := range []int{-1, ServiceIDMax + 1} {
		_, err := NewServiceDataSpecifier(id, RoleServer)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("service %d: want OutOfRangeError, got %v", id, err)
		}
	}

	// boundary pair from the port contract
	if _, err := NewServiceDataSpecifier(512, RoleClient); err == nil {
		t.Fatalf("service 512 must be rejected")
	}
	if _, err := NewServiceDataSpecifier(511, RoleServer); err != nil {
		t.Fatalf("service 511: %v", err)
	}
}

func TestSpecifierIdentity(t *testing.T) {
	a, _ := NewServiceDataSpecifier(7, RoleClient)
	b, _ := NewServiceDataSpecifier(7, RoleClient)
	c, _ := NewServiceDataSpecifier(7, RoleServer)
	if a != b {
		t.Fatalf("identical specifiers must be equal")
	}
	if a == c {
		t.Fatalf("client and server roles are distinct specifiers")
	}
}

func TestSpecifierOrdering(t *testing.T) {
	m1, _ := NewMessageDataSpecifier(1)
	m2, _ := NewMessageDataSpecifier(2)
	sc, _ := NewServiceDataSpecifier(1, RoleClient)
	ss, _ := NewServiceDataSpecifier(1, RoleServer)

	if CompareSpecifiers(m1, m2) >= 0 {
		t.Fatalf("message 1 must sort before message 2")
	}
	if CompareSpecifiers(m2, sc) >= 0 {
		t.Fatalf("messages must sort before services")
	}
	if CompareSpecifiers(sc, ss) >= 0 {
		t.Fatalf("client role must sort before server role")
	}
	if CompareSpecifiers(ss, ss) != 0 {
		t.Fatalf("specifier must compare equal to itself")
	}
}

func TestSpecifierString(t *testing.T) {
	m, _ := NewMessageDataSpecifier(42)
	if m.String() != "message:42" {
		t.Fatalf("got %q", m.String())
	}
	s, _ := NewServiceDataSpecifier(9, RoleServer)
	if s.String() != "service:9:server" {
		t.Fatalf("got %q", s.String())
	}
}
