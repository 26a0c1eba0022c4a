package engine

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/errors"
	"github.com/wippyai/comm-runtime/internal/layout"
)

// worldGroup is the handle of the default all-participants group.
const worldGroup commruntime.Group = 1

// message is one in-flight point-to-point payload, already packed into
// dense wire bytes.
type message struct {
	source int
	tag    int
	data   []byte
}

// mailbox is the arrival-ordered queue of one destination rank within one
// group. Matching scans in arrival order, which preserves FIFO delivery
// per (source, destination, tag) channel.
type mailbox struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []*message
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func matches(m *message, source, tag int) bool {
	if source != commruntime.AnySource && m.source != source {
		return false
	}
	return tag == commruntime.AnyTag || m.tag == tag
}

type cellKind uint8

const (
	cellBarrier cellKind = iota
	cellBcast
	cellGather
	cellDup
)

var cellKindNames = [...]string{
	cellBarrier: "barrier",
	cellBcast:   "broadcast",
	cellGather:  "gather",
	cellDup:     "duplicate",
}

// cell is one collective rendezvous: all ranks of a group meeting at the
// same per-group operation index. The cell is discarded once every rank
// has departed.
type cell struct {
	kind       cellKind
	arrived    int
	departed   int
	err        error
	payload    []byte // broadcast: root's packed buffer
	hasPayload bool
	parts      [][]byte // gather: packed contribution per rank
	counts     []int
	newGroup   commruntime.Group // duplicate: agreed handle
}

// groupState is the shared state of one process group: refcount, one
// mailbox per destination rank, and the collective rendezvous cells.
type groupState struct {
	refs     int // -1 marks the world group, never freed
	boxes    []*mailbox
	collMu   sync.Mutex
	collCond *sync.Cond
	cells    map[uint64]*cell
}

func newGroupState(size, refs int) *groupState {
	gs := &groupState{
		refs:  refs,
		boxes: make([]*mailbox, size),
		cells: make(map[uint64]*cell),
	}
	for i := range gs.boxes {
		gs.boxes[i] = newMailbox()
	}
	gs.collCond = sync.NewCond(&gs.collMu)
	return gs
}

// Exchange is an in-memory loopback substrate shared by a fixed number of
// simulated ranks. Each rank attaches once and drives its own Port; the
// exchange provides FIFO-per-channel point-to-point delivery, wildcard
// matching, rendezvous collectives, and refcounted duplicated groups with
// isolated matching domains.
type Exchange struct {
	size int

	mu     sync.Mutex
	groups map[commruntime.Group]*groupState
	next   commruntime.Group
}

// NewExchange creates an exchange for size ranks.
func NewExchange(size int) (*Exchange, error) {
	if size <= 0 {
		return nil, errors.InvalidInput(errors.PhaseSubstrate, "exchange size must be positive")
	}
	x := &Exchange{
		size:   size,
		groups: map[commruntime.Group]*groupState{worldGroup: newGroupState(size, -1)},
		next:   worldGroup + 1,
	}
	Logger().Debug("exchange created", zap.Int("size", size))
	return x, nil
}

// Size returns the number of ranks the exchange was created for.
func (x *Exchange) Size() int { return x.size }

// Attach returns the substrate port for one rank. Each port is intended
// for a single goroutine; ports of different ranks may run concurrently.
func (x *Exchange) Attach(rank int) (*Port, error) {
	if rank < 0 || rank >= x.size {
		return nil, errors.RankOutOfRange(errors.PhaseSubstrate, rank, x.size)
	}
	return &Port{
		x:      x,
		rank:   rank,
		nextOp: make(map[commruntime.Group]uint64),
	}, nil
}

func (x *Exchange) group(g commruntime.Group) (*groupState, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	gs, ok := x.groups[g]
	if !ok {
		return nil, errors.TransferFault(errors.PhaseSubstrate, "unknown group", nil)
	}
	return gs, nil
}

func (x *Exchange) allocGroup() commruntime.Group {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.next
	x.next++
	x.groups[g] = newGroupState(x.size, x.size)
	return g
}

// Port is one rank's attachment to the exchange. It implements
// commruntime.Substrate. Communication calls are single-threaded per
// port; Rank and Size are safe to call from anywhere.
type Port struct {
	x    *Exchange
	rank int
	// nextOp tracks the rank's position in each group's collective
	// sequence. Unsynchronized: ports are single-threaded for calls.
	nextOp map[commruntime.Group]uint64
}

// World implements commruntime.Substrate.
func (p *Port) World() commruntime.Group { return worldGroup }

// Rank implements commruntime.Substrate. All groups share the exchange's
// full membership, so the rank is the same in every group.
func (p *Port) Rank(commruntime.Group) int { return p.rank }

// Size implements commruntime.Substrate.
func (p *Port) Size(commruntime.Group) int { return p.x.size }

// Send packs the buffer into wire bytes and enqueues it at the
// destination's mailbox. The copy completes locally, so the caller's
// buffer is immediately reusable (standard-mode semantics).
func (p *Port) Send(ptr unsafe.Pointer, count int, l commruntime.Layout, dest, tag int, g commruntime.Group) error {
	gs, err := p.x.group(g)
	if err != nil {
		return err
	}
	if dest < 0 || dest >= p.x.size {
		return errors.TransferFault(errors.PhaseSubstrate, "unreachable rank", nil)
	}
	if count < 0 {
		return errors.TransferFault(errors.PhaseSubstrate, "negative element count", nil)
	}

	msg := &message{source: p.rank, tag: tag, data: layout.Pack(ptr, count, l)}

	box := gs.boxes[dest]
	box.mu.Lock()
	box.queue = append(box.queue, msg)
	box.mu.Unlock()
	box.cond.Broadcast()

	Logger().Debug("send",
		zap.Int("source", p.rank),
		zap.Int("dest", dest),
		zap.Int("tag", tag),
		zap.Int("bytes", len(msg.data)))
	return nil
}

// Recv blocks until a matching message arrives, writes at most capacity
// elements into ptr, and reports the transfer. An oversized message is
// consumed, capacity elements are written, and the call fails with a
// truncation fault.
func (p *Port) Recv(ptr unsafe.Pointer, capacity int, l commruntime.Layout, source, tag int, g commruntime.Group) (commruntime.RawStatus, error) {
	gs, err := p.x.group(g)
	if err != nil {
		return commruntime.RawStatus{}, err
	}

	box := gs.boxes[p.rank]
	box.mu.Lock()
	var msg *message
	for {
		for i, m := range box.queue {
			if matches(m, source, tag) {
				msg = m
				box.queue = append(box.queue[:i], box.queue[i+1:]...)
				break
			}
		}
		if msg != nil {
			break
		}
		box.cond.Wait()
	}
	box.mu.Unlock()

	per := layout.PackedSize(l)
	if per == 0 {
		if len(msg.data) > 0 {
			return commruntime.RawStatus{}, errors.Truncation(len(msg.data), 0)
		}
		return commruntime.RawStatus{Source: msg.source, Tag: msg.tag, Count: 0}, nil
	}

	if uintptr(len(msg.data)) > per*uintptr(capacity) {
		incoming := (uintptr(len(msg.data)) + per - 1) / per
		layout.Unpack(msg.data[:per*uintptr(capacity)], ptr, capacity, l)
		return commruntime.RawStatus{}, errors.Truncation(int(incoming), capacity)
	}

	elems := int(uintptr(len(msg.data)) / per)
	layout.Unpack(msg.data, ptr, elems, l)

	Logger().Debug("recv",
		zap.Int("dest", p.rank),
		zap.Int("source", msg.source),
		zap.Int("tag", msg.tag),
		zap.Int("count", elems))
	return commruntime.RawStatus{Source: msg.source, Tag: msg.tag, Count: elems}, nil
}

// Probe blocks until a matching message is available and reports its size
// in elements of l without consuming it.
func (p *Port) Probe(l commruntime.Layout, source, tag int, g commruntime.Group) (commruntime.RawStatus, error) {
	gs, err := p.x.group(g)
	if err != nil {
		return commruntime.RawStatus{}, err
	}

	box := gs.boxes[p.rank]
	box.mu.Lock()
	defer box.mu.Unlock()
	for {
		for _, m := range box.queue {
			if matches(m, source, tag) {
				count := 0
				if per := layout.PackedSize(l); per > 0 {
					count = int(uintptr(len(m.data)) / per)
				}
				return commruntime.RawStatus{Source: m.source, Tag: m.tag, Count: count}, nil
			}
		}
		box.cond.Wait()
	}
}

// enterCell joins the rank to the rendezvous at its next operation index
// in g's collective sequence. The group's collMu is held on return.
func (p *Port) enterCell(gs *groupState, g commruntime.Group, kind cellKind) (uint64, *cell) {
	idx := p.nextOp[g]
	p.nextOp[g] = idx + 1

	gs.collMu.Lock()
	c, ok := gs.cells[idx]
	if !ok {
		c = &cell{kind: kind}
		gs.cells[idx] = c
	}
	if c.kind != kind && c.err == nil {
		c.err = errors.TransferFault(errors.PhaseSubstrate,
			"mismatched collective participation: "+cellKindNames[c.kind]+" vs "+cellKindNames[kind], nil)
	}
	return idx, c
}

// awaitCell blocks until every rank has arrived, then handles departure
// bookkeeping. Caller must hold collMu; it is released on return.
func (p *Port) awaitCell(gs *groupState, idx uint64, c *cell) error {
	c.arrived++
	gs.collCond.Broadcast()
	for c.arrived < p.x.size && c.err == nil {
		gs.collCond.Wait()
	}
	err := c.err

	c.departed++
	if c.departed == p.x.size {
		delete(gs.cells, idx)
	}
	gs.collMu.Unlock()
	return err
}

// Barrier implements commruntime.Substrate.
func (p *Port) Barrier(g commruntime.Group) error {
	gs, err := p.x.group(g)
	if err != nil {
		return err
	}
	idx, c := p.enterCell(gs, g, cellBarrier)
	return p.awaitCell(gs, idx, c)
}

// Bcast implements commruntime.Substrate. The root packs its buffer into
// the cell before arriving; every other rank unpacks it after the
// rendezvous completes.
func (p *Port) Bcast(ptr unsafe.Pointer, count int, l commruntime.Layout, root int, g commruntime.Group) error {
	gs, err := p.x.group(g)
	if err != nil {
		return err
	}
	if root < 0 || root >= p.x.size {
		return errors.TransferFault(errors.PhaseSubstrate, "broadcast root out of range", nil)
	}

	idx, c := p.enterCell(gs, g, cellBcast)
	if p.rank == root && c.err == nil {
		c.payload = layout.Pack(ptr, count, l)
		c.hasPayload = true
	}

	c.arrived++
	gs.collCond.Broadcast()
	for (c.arrived < p.x.size || !c.hasPayload) && c.err == nil {
		gs.collCond.Wait()
	}
	err = c.err

	if err == nil && p.rank != root {
		if per := layout.PackedSize(l); per > 0 {
			elems := int(uintptr(len(c.payload)) / per)
			if elems > count {
				elems = count
			}
			layout.Unpack(c.payload, ptr, elems, l)
		}
	}

	c.departed++
	if c.departed == p.x.size {
		delete(gs.cells, idx)
	}
	gs.collMu.Unlock()
	return err
}

// Gather implements commruntime.Substrate. Every rank deposits its packed
// contribution; once all have arrived the root concatenates them in rank
// order into its receive buffer.
func (p *Port) Gather(sendPtr unsafe.Pointer, sendCount int, sendLayout commruntime.Layout,
	recvPtr unsafe.Pointer, recvCapacity int, recvLayout commruntime.Layout,
	root int, g commruntime.Group) error {
	gs, err := p.x.group(g)
	if err != nil {
		return err
	}
	if root < 0 || root >= p.x.size {
		return errors.TransferFault(errors.PhaseSubstrate, "gather root out of range", nil)
	}

	part := layout.Pack(sendPtr, sendCount, sendLayout)

	idx, c := p.enterCell(gs, g, cellGather)
	if c.parts == nil {
		c.parts = make([][]byte, p.x.size)
		c.counts = make([]int, p.x.size)
	}
	c.parts[p.rank] = part
	c.counts[p.rank] = sendCount

	c.arrived++
	gs.collCond.Broadcast()
	for c.arrived < p.x.size && c.err == nil {
		gs.collCond.Wait()
	}
	err = c.err

	if err == nil && p.rank == root {
		total := 0
		for _, n := range c.counts {
			total += n
		}
		if total > recvCapacity {
			err = errors.TransferFault(errors.PhaseSubstrate,
				"gather contributions exceed root receive capacity", nil)
		} else {
			var all []byte
			for _, part := range c.parts {
				all = append(all, part...)
			}
			layout.Unpack(all, recvPtr, total, recvLayout)
		}
	}

	c.departed++
	if c.departed == p.x.size {
		delete(gs.cells, idx)
	}
	gs.collMu.Unlock()
	return err
}

// DupGroup implements commruntime.Substrate. Duplication is collective:
// the first arriving rank allocates the new group and all ranks leave the
// rendezvous with the same handle. The new group starts with one
// reference per rank.
func (p *Port) DupGroup(g commruntime.Group) (commruntime.Group, error) {
	gs, err := p.x.group(g)
	if err != nil {
		return 0, err
	}

	idx, c := p.enterCell(gs, g, cellDup)
	if c.newGroup == 0 && c.err == nil {
		c.newGroup = p.x.allocGroup()
		Logger().Debug("group duplicated",
			zap.Uint32("parent", uint32(g)),
			zap.Uint32("group", uint32(c.newGroup)))
	}
	ng := c.newGroup
	if err := p.awaitCell(gs, idx, c); err != nil {
		return 0, err
	}
	return ng, nil
}

// FreeGroup implements commruntime.Substrate. The world group is never
// freed; duplicated groups are released once every rank has freed its
// reference.
func (p *Port) FreeGroup(g commruntime.Group) error {
	if g == worldGroup {
		return nil
	}
	p.x.mu.Lock()
	defer p.x.mu.Unlock()
	gs, ok := p.x.groups[g]
	if !ok {
		return errors.TransferFault(errors.PhaseSubstrate, "unknown group", nil)
	}
	gs.refs--
	if gs.refs == 0 {
		delete(p.x.groups, g)
	}
	return nil
}
