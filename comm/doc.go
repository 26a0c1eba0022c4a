// Package comm implements the blocking communication operations: typed
// point-to-point send/receive and the barrier, broadcast and gather
// collectives, expressed in terms of buffer views and datatypes.
//
// Each point-to-point call is self-contained (call-scoped, not
// session-scoped): a Process endpoint plus a tag scopes exactly one
// matching send/receive pair. Messages between the same ordered
// (source, destination, tag, communicator) channel are delivered in the
// order sent; no ordering holds across different tags or communicators.
//
// Every operation blocks the calling goroutine until its local completion
// condition holds. There is no cancellation and no timeout: a deadlocked
// program deadlocks, matching the semantics of the underlying model.
package comm
