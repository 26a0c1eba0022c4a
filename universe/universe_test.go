package universe_test

import (
	"errors"
	"testing"

	"github.com/wippyai/comm-runtime/datatype"
	"github.com/wippyai/comm-runtime/engine"
	commerrors "github.com/wippyai/comm-runtime/errors"
	"github.com/wippyai/comm-runtime/universe"
)

func attach(t *testing.T) *engine.Port {
	t.Helper()
	x, err := engine.NewExchange(1)
	if err != nil {
		t.Fatal(err)
	}
	p, err := x.Attach(0)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInitialize(t *testing.T) {
	p := attach(t)

	u, err := universe.Initialize(p)
	if err != nil {
		t.Fatal(err)
	}

	world, err := u.World()
	if err != nil {
		t.Fatal(err)
	}
	if world.Rank() != 0 || world.Size() != 1 {
		t.Errorf("world: rank %d size %d", world.Rank(), world.Size())
	}

	sub, err := u.Substrate()
	if err != nil {
		t.Fatal(err)
	}
	if sub != p {
		t.Error("substrate accessor returned a different engine")
	}

	if err := u.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestInitializeTwice(t *testing.T) {
	p := attach(t)

	u, err := universe.Initialize(p)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	_, err = universe.Initialize(p)
	want := &commerrors.Error{Phase: commerrors.PhaseInit, Kind: commerrors.KindAlreadyInitialized}
	if !errors.Is(err, want) {
		t.Errorf("wrong error: %v", err)
	}
}

func TestReinitializeAfterClose(t *testing.T) {
	p := attach(t)

	u, err := universe.Initialize(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Close(); err != nil {
		t.Fatal(err)
	}

	u2, err := universe.Initialize(p)
	if err != nil {
		t.Fatalf("reinitialize: %v", err)
	}
	if err := u2.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestUseAfterClose(t *testing.T) {
	p := attach(t)

	u, err := universe.Initialize(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Close(); err != nil {
		t.Fatal(err)
	}

	want := &commerrors.Error{Phase: commerrors.PhaseInit, Kind: commerrors.KindUninitialized}
	if _, err := u.World(); !errors.Is(err, want) {
		t.Errorf("World: wrong error: %v", err)
	}
	if _, err := u.Substrate(); !errors.Is(err, want) {
		t.Errorf("Substrate: wrong error: %v", err)
	}
	if err := u.Close(); !errors.Is(err, want) {
		t.Errorf("second Close: wrong error: %v", err)
	}
}

func TestDescriptorGating(t *testing.T) {
	want := &commerrors.Error{Phase: commerrors.PhaseDescribe, Kind: commerrors.KindUninitialized}

	if _, err := datatype.Of[int32](); !errors.Is(err, want) {
		t.Errorf("before initialization: wrong error: %v", err)
	}

	u, err := universe.Initialize(attach(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := datatype.Of[int32](); err != nil {
		t.Errorf("while live: %v", err)
	}

	// A second live universe keeps the registry available after the
	// first one closes.
	u2, err := universe.Initialize(attach(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := datatype.Of[int32](); err != nil {
		t.Errorf("after closing one of two: %v", err)
	}

	if err := u2.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := datatype.Of[int32](); !errors.Is(err, want) {
		t.Errorf("after last close: wrong error: %v", err)
	}
}
