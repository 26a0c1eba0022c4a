package buffer

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/wippyai/comm-runtime/datatype"
	commerrors "github.com/wippyai/comm-runtime/errors"
	"github.com/wippyai/comm-runtime/internal/registry"
)

func TestSendRecvFromSlices(t *testing.T) {
	registry.Install()
	defer registry.Release()

	data := []float64{1, 2, 3}

	sv, err := Send(data)
	if err != nil {
		t.Fatal(err)
	}
	if sv.Count() != 3 {
		t.Errorf("count: got %d, want 3", sv.Count())
	}
	if sv.Base() != unsafe.Pointer(&data[0]) {
		t.Error("base does not point at the slice data")
	}
	if sv.Datatype().Extent() != 8 {
		t.Errorf("extent: got %d, want 8", sv.Datatype().Extent())
	}

	rv, err := Recv(data)
	if err != nil {
		t.Fatal(err)
	}
	if rv.Count() != 3 || rv.Base() != unsafe.Pointer(&data[0]) {
		t.Error("receive view does not cover the slice")
	}
}

func TestEmptySlice(t *testing.T) {
	registry.Install()
	defer registry.Release()

	sv, err := Send([]int32{})
	if err != nil {
		t.Fatal(err)
	}
	if sv.Count() != 0 || sv.Base() != nil {
		t.Errorf("empty view: count %d, base %v", sv.Count(), sv.Base())
	}
}

func TestViewBeforeInitialization(t *testing.T) {
	_, err := Send([]float64{1})
	want := &commerrors.Error{Phase: commerrors.PhaseDescribe, Kind: commerrors.KindUninitialized}
	if !errors.Is(err, want) {
		t.Errorf("wrong error: %v", err)
	}
}

func TestViewRegionCapacity(t *testing.T) {
	registry.Install()
	defer registry.Release()

	f64, _ := datatype.Of[float64]()
	backing := make([]float64, 4)
	region := Region{Base: unsafe.Pointer(&backing[0]), Capacity: 32}

	t.Run("fits", func(t *testing.T) {
		v, err := ViewSend(region, f64, 4)
		if err != nil {
			t.Fatal(err)
		}
		if v.Count() != 4 {
			t.Errorf("count: got %d, want 4", v.Count())
		}
	})

	t.Run("region too small", func(t *testing.T) {
		_, err := ViewRecv(region, f64, 5)
		want := &commerrors.Error{Phase: commerrors.PhaseView, Kind: commerrors.KindRegionTooSmall}
		if !errors.Is(err, want) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("negative count", func(t *testing.T) {
		_, err := ViewSend(region, f64, -1)
		want := &commerrors.Error{Phase: commerrors.PhaseView, Kind: commerrors.KindInvalidInput}
		if !errors.Is(err, want) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("composite extent counts", func(t *testing.T) {
		pair, err := datatype.Contiguous(f64, 2)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ViewSend(region, pair, 2); err == nil {
			t.Error("expected region_too_small for 2 pairs in 32 bytes")
		}
		if _, err := ViewSend(region, pair, 1); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

type vec3 struct{ X, Y, Z float64 }

var vec3Type datatype.Datatype

func (vec3) Describe() datatype.Datatype { return vec3Type }

func TestViewsOfDescribedKinds(t *testing.T) {
	registry.Install()
	defer registry.Release()

	f64, _ := datatype.Of[float64]()
	var err error
	vec3Type, err = datatype.Struct([]datatype.Field{{Offset: 0, Type: f64, Count: 3}})
	if err != nil {
		t.Fatal(err)
	}

	vs := []vec3{{1, 2, 3}, {4, 5, 6}}
	sv, err := SendOf(vs)
	if err != nil {
		t.Fatal(err)
	}
	if sv.Count() != 2 || sv.Datatype().Extent() != 24 {
		t.Errorf("got count %d, extent %d", sv.Count(), sv.Datatype().Extent())
	}

	rv, err := RecvOf(make([]vec3, 2))
	if err != nil {
		t.Fatal(err)
	}
	if rv.Count() != 2 {
		t.Errorf("count: got %d, want 2", rv.Count())
	}
}
