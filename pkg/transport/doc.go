// Package transport defines the canonical port and data-specifier model for
// meshbus: the contracts every concrete medium (CAN, UDP, serial, ...) must
// honor to carry prioritized, fragmented transfers.
//
// Key concepts:
//   - DataSpecifier: identity of a logical channel, either a pub/sub subject
//     or one side (client/server) of a request/response service
//   - Transfer: one prioritized unit of application payload, carried as an
//     ordered sequence of byte fragments
//   - Port: an addressable, closeable endpoint bound to one DataSpecifier
//     (Publisher, Subscriber, Client, Server)
//   - Transport: constructs ports and owns their collective lifecycle
//
// Concrete transports live in subpackages (loopback is the in-process
// reference implementation); the declarative construction entry point is
// package transports.
package transport
