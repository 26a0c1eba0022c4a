package comm

import (
	"github.com/wippyai/comm-runtime/buffer"
	"github.com/wippyai/comm-runtime/errors"
)

// Collective operations require every rank of the communicator to invoke
// the same operation in the same relative order. A violated ordering
// blocks indefinitely at the substrate level; this layer has no
// visibility into other ranks' call order and cannot detect it locally.

// Barrier blocks until every rank of the communicator has called it. No
// data is transferred.
func (c *Communicator) Barrier() error {
	return translate(errors.PhaseCollective, c.sub.Barrier(c.group))
}

// Broadcast replicates the root's buffer contents into every other
// rank's view. All ranks must pass a view of the same datatype and
// element count; the substrate does not cross-check this. The view is
// read on the root and written everywhere else, so all ranks pass a
// receive view.
func (c *Communicator) Broadcast(v buffer.RecvView, root int) error {
	if root < 0 || root >= c.Size() {
		return errors.RankOutOfRange(errors.PhaseCollective, root, c.Size())
	}
	err := c.sub.Bcast(v.Base(), v.Count(), v.Datatype(), root, c.group)
	return translate(errors.PhaseCollective, err)
}

// Gather concatenates every rank's send view, in rank order, into the
// root's receive view. The root's receive capacity must equal
// Size()*send.Count(); a mismatch is a transfer fault. recv is ignored on
// non-root ranks and may be the zero view.
func (c *Communicator) Gather(send buffer.SendView, recv buffer.RecvView, root int) error {
	if root < 0 || root >= c.Size() {
		return errors.RankOutOfRange(errors.PhaseCollective, root, c.Size())
	}
	if c.Rank() == root && recv.Count() != c.Size()*send.Count() {
		return errors.TransferFault(errors.PhaseCollective,
			"gather receive capacity must equal size times send count", nil)
	}
	err := c.sub.Gather(send.Base(), send.Count(), send.Datatype(),
		recv.Base(), recv.Count(), recv.Datatype(), root, c.group)
	return translate(errors.PhaseCollective, err)
}
