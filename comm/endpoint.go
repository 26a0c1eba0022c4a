package comm

import (
	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/buffer"
	"github.com/wippyai/comm-runtime/datatype"
	"github.com/wippyai/comm-runtime/errors"
)

// AnyTag matches a message with any tag when passed to Receive or Probe.
const AnyTag = commruntime.AnyTag

// Process identifies a conversation partner: a communicator plus a rank.
// Together with the tag of each call it scopes a single send or receive.
// A Process obtained from Any carries the wildcard rank and is only valid
// as a receive or probe source.
type Process struct {
	c    *Communicator
	rank int
}

// Rank returns the endpoint's rank, or AnySource for the wildcard.
func (p Process) Rank() int { return p.rank }

// Send transfers the view's contents to this endpoint, blocking until the
// substrate reports local completion. Under standard-mode semantics
// completion only guarantees the sender's buffer is reusable, not that
// the receiver has consumed the data. The call is not retried on a
// transfer fault; retry semantics depend on application idempotence.
func (p Process) Send(v buffer.SendView, tag int) error {
	if p.rank == commruntime.AnySource {
		return errors.RankOutOfRange(errors.PhaseComm, p.rank, p.c.Size())
	}
	err := p.c.sub.Send(v.Base(), v.Count(), v.Datatype(), p.rank, tag, p.c.group)
	return translate(errors.PhaseComm, err)
}

// Receive blocks until a message matching this endpoint and tag arrives,
// writes into the view up to its capacity, and returns a Status. tag may
// be AnyTag. An incoming message larger than the view's capacity fails
// with truncation_fault: at most the capacity is written, the rest of the
// message is lost.
func (p Process) Receive(v buffer.RecvView, tag int) (Status, error) {
	raw, err := p.c.sub.Recv(v.Base(), v.Count(), v.Datatype(), p.rank, tag, p.c.group)
	if err != nil {
		return Status{}, translate(errors.PhaseComm, err)
	}
	return Status{Source: raw.Source, Tag: raw.Tag, Count: raw.Count}, nil
}

// Probe blocks until a message matching this endpoint and tag is
// available and reports its size in elements of dt, without consuming it.
func (p Process) Probe(dt datatype.Datatype, tag int) (Status, error) {
	raw, err := p.c.sub.Probe(dt, p.rank, tag, p.c.group)
	if err != nil {
		return Status{}, translate(errors.PhaseComm, err)
	}
	return Status{Source: raw.Source, Tag: raw.Tag, Count: raw.Count}, nil
}

// ReceiveDynamic probes the size of the next matching message, allocates
// a slice to fit, and receives into it, avoiding truncation for
// variable-length payloads. The probe and the receive are two substrate
// calls; interleaving other receives on the same communicator from other
// goroutines between them is a caller-owned race.
func ReceiveDynamic[T datatype.Primitive](p Process, tag int) ([]T, Status, error) {
	dt, err := datatype.Of[T]()
	if err != nil {
		return nil, Status{}, err
	}

	probed, err := p.Probe(dt, tag)
	if err != nil {
		return nil, Status{}, err
	}

	out := make([]T, probed.Count)
	view, err := buffer.Recv(out)
	if err != nil {
		return nil, Status{}, err
	}

	// Pin the receive to the probed message so a wildcard probe cannot
	// pair with a different sender's message.
	src := Process{c: p.c, rank: probed.Source}
	status, err := src.Receive(view, probed.Tag)
	if err != nil {
		return nil, Status{}, err
	}
	return out[:status.Count], status, nil
}
