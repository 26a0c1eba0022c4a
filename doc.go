// Package commruntime provides a type-safe communication layer over a
// raw, process-group-based message-passing substrate.
//
// The substrate (the kind of engine used for distributed numerical
// computation) exchanges messages in terms of bare addresses, element
// counts, and opaque layout descriptors. This library wraps that unsafe
// contract so that a pointer, an element count, and a datatype are always
// constructed and presented together, and so that layout mistakes surface
// as construction-time errors instead of buffer overruns.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	commruntime/        Root package with the raw Substrate and Layout contracts
//	├── universe/       Process-wide initialization gate and world communicator
//	├── comm/           Communicators, point-to-point and collective operations
//	├── buffer/         Typed non-owning send/receive views
//	├── datatype/       Elementary descriptors and composite layout builders
//	├── engine/         In-memory loopback substrate for tests and demos
//	└── errors/         Structured error types for debugging
//
// # Quick Start
//
// Attach to a substrate and exchange typed buffers:
//
//	u, err := universe.Initialize(port)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer u.Close()
//
//	world, _ := u.World()
//	if world.Rank() == 0 {
//	    view, _ := buffer.Send([]float64{3.14, 2.71})
//	    peer, _ := world.Process(1)
//	    peer.Send(view, 42)
//	} else {
//	    data := make([]float64, 2)
//	    view, _ := buffer.Recv(data)
//	    status, _ := world.Any().Receive(view, 42)
//	    fmt.Println(data[:status.Count])
//	}
//
// # Blocking Model
//
// Every operation is blocking: the calling goroutine is suspended until
// the operation's local completion condition holds. No cancellation or
// timeout is exposed; a blocked call is only unblocked by a matching peer
// action. Point-to-point messages between the same (source, destination,
// tag, communicator) channel are delivered in the order sent. Collective
// operations require every rank of the communicator to invoke the same
// operation in the same relative order, or the program deadlocks; this
// cross-process invariant cannot be checked locally.
//
// # Thread Safety
//
// Communicator handles may be copied and shared for rank/size queries.
// Issuing concurrent communication calls on the same communicator from
// multiple goroutines without external coordination is undefined, as is
// aliasing a receive view while its call is in flight.
package commruntime
