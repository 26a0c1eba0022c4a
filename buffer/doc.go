// Package buffer binds memory regions to datatypes, producing the views
// the communication layer passes to the substrate.
//
// A view is a non-owning (address, count, datatype) triple. SendView is
// read-only; RecvView is the writable destination of a receive. Views
// never outlive the call they participate in, and the caller must not
// mutate or alias the referenced memory while a call is in flight —
// aliasing across simultaneous views on the same memory is undefined and
// is not checked here.
package buffer
