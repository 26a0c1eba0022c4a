// Package engine provides an in-memory loopback substrate: a complete
// implementation of commruntime.Substrate in which all ranks are
// goroutines of a single process, exchanging packed wire bytes through a
// shared Exchange.
//
// The loopback engine exists for two reasons: it lets the test suite
// exercise multi-rank semantics (ordering, wildcard matching, collective
// rendezvous, duplicated-group isolation) deterministically, and it
// backs the demo command. It honors the substrate contract that a real
// engine would: FIFO delivery per (source, destination, tag, group)
// channel, standard-mode sends that complete as soon as the payload is
// copied, blocking receives and collectives, and refcounted duplicated
// groups whose message-matching domains are fully isolated.
//
// Logging uses zap and is a no-op unless SetLogger is called.
package engine
