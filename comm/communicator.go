package comm

import (
	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/errors"
)

// Communicator is a lightweight handle on a substrate-level process
// group. It may be copied and shared for Rank/Size queries; issuing
// concurrent communication calls on the same communicator from multiple
// goroutines without external coordination is undefined.
type Communicator struct {
	sub   commruntime.Substrate
	group commruntime.Group
}

// New wraps an existing substrate group. Most callers obtain their world
// communicator from universe.Initialize instead.
func New(sub commruntime.Substrate, g commruntime.Group) *Communicator {
	return &Communicator{sub: sub, group: g}
}

// Rank returns this participant's identity in [0, Size).
func (c *Communicator) Rank() int { return c.sub.Rank(c.group) }

// Size returns the number of participants in the group.
func (c *Communicator) Size() int { return c.sub.Size(c.group) }

// Process returns the endpoint factory for the given rank. The rank is
// checked eagerly, before any transfer is attempted.
func (c *Communicator) Process(rank int) (Process, error) {
	if rank < 0 || rank >= c.Size() {
		return Process{}, errors.RankOutOfRange(errors.PhaseComm, rank, c.Size())
	}
	return Process{c: c, rank: rank}, nil
}

// Any returns the wildcard endpoint, matching a message from any source.
// It is valid only as the source of a receive or probe.
func (c *Communicator) Any() Process {
	return Process{c: c, rank: commruntime.AnySource}
}

// Duplicate creates a communicator with identical membership but an
// independent message-matching domain, so logically separate
// conversations cannot collide on tags. It is collective: every rank
// must call it in the same relative order as other collectives.
func (c *Communicator) Duplicate() (*Communicator, error) {
	g, err := c.sub.DupGroup(c.group)
	if err != nil {
		return nil, translate(errors.PhaseCollective, err)
	}
	return &Communicator{sub: c.sub, group: g}, nil
}

// Close releases this handle's reference to the underlying group. The
// substrate frees the group when the last reference is released; the
// world group is never freed.
func (c *Communicator) Close() error {
	return translate(errors.PhaseSubstrate, c.sub.FreeGroup(c.group))
}

// translate maps a raw substrate error into the typed taxonomy. Errors
// already carrying a phase and kind pass through unchanged; anything else
// is a transfer fault.
func translate(phase errors.Phase, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.TransferFault(phase, "substrate fault", err)
}
