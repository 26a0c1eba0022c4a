package universe

import (
	"sync"

	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/comm"
	"github.com/wippyai/comm-runtime/errors"
	"github.com/wippyai/comm-runtime/internal/registry"
)

var (
	attachMu sync.Mutex
	attached = make(map[commruntime.Substrate]struct{})
)

// Universe is the single-instance initialization gate for one substrate
// attachment. Acquiring it makes the elementary descriptor registry
// available and hands out the world communicator; releasing the last live
// Universe in the process makes every descriptor capability fail with
// uninitialized_substrate again.
type Universe struct {
	mu     sync.Mutex
	sub    commruntime.Substrate
	world  *comm.Communicator
	closed bool
}

// Initialize acquires the universe for sub. A second acquisition for the
// same substrate while the first is live fails with already_initialized.
func Initialize(sub commruntime.Substrate) (*Universe, error) {
	attachMu.Lock()
	defer attachMu.Unlock()

	if _, ok := attached[sub]; ok {
		return nil, errors.AlreadyInitialized()
	}
	attached[sub] = struct{}{}
	registry.Install()

	return &Universe{
		sub:   sub,
		world: comm.New(sub, sub.World()),
	}, nil
}

// World returns the default communicator spanning all participants.
func (u *Universe) World() (*comm.Communicator, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil, errors.Uninitialized(errors.PhaseInit, "universe")
	}
	return u.world, nil
}

// Substrate returns the raw engine this universe wraps.
func (u *Universe) Substrate() (commruntime.Substrate, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil, errors.Uninitialized(errors.PhaseInit, "universe")
	}
	return u.sub, nil
}

// Close releases the universe. Closing twice is an error; using any
// capability afterwards fails with uninitialized_substrate rather than
// invoking undefined behavior.
func (u *Universe) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return errors.Uninitialized(errors.PhaseInit, "universe")
	}
	u.closed = true

	attachMu.Lock()
	delete(attached, u.sub)
	attachMu.Unlock()
	registry.Release()
	return nil
}
