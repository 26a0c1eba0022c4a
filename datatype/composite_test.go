package datatype

import (
	"errors"
	"reflect"
	"testing"

	commerrors "github.com/wippyai/comm-runtime/errors"
	"github.com/wippyai/comm-runtime/internal/registry"
)

func invalidLayout() *commerrors.Error {
	return &commerrors.Error{Phase: commerrors.PhaseLayout, Kind: commerrors.KindInvalidLayout}
}

func TestContiguous(t *testing.T) {
	registry.Install()
	defer registry.Release()

	f64, _ := Of[float64]()

	t.Run("basic", func(t *testing.T) {
		c, err := Contiguous(f64, 3)
		if err != nil {
			t.Fatal(err)
		}
		if c.Extent() != 24 {
			t.Errorf("extent: got %d, want 24", c.Extent())
		}
		if len(c.Blocks()) != 3 {
			t.Errorf("blocks: got %d, want 3", len(c.Blocks()))
		}
	})

	t.Run("zero count is a legal empty transfer", func(t *testing.T) {
		c, err := Contiguous(f64, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c.Extent() != 0 || len(c.Blocks()) != 0 {
			t.Errorf("got extent %d, %d blocks", c.Extent(), len(c.Blocks()))
		}
	})

	t.Run("negative count", func(t *testing.T) {
		if _, err := Contiguous(f64, -1); !errors.Is(err, invalidLayout()) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("referentially stable", func(t *testing.T) {
		a, _ := Contiguous(f64, 4)
		b, _ := Contiguous(f64, 4)
		if !reflect.DeepEqual(a.Blocks(), b.Blocks()) || a.Extent() != b.Extent() {
			t.Error("repeated construction yields different descriptors")
		}
	})
}

func TestVector(t *testing.T) {
	registry.Install()
	defer registry.Release()

	i32, _ := Of[int32]()

	t.Run("strided", func(t *testing.T) {
		// Every other int32 out of 4 slots.
		v, err := Vector(i32, 8, 4)
		if err != nil {
			t.Fatal(err)
		}
		if v.Extent() != 3*8+4 {
			t.Errorf("extent: got %d, want 28", v.Extent())
		}
		blocks := v.Blocks()
		if len(blocks) != 4 {
			t.Fatalf("blocks: got %d, want 4", len(blocks))
		}
		for i, b := range blocks {
			if b.Offset != uintptr(i*8) {
				t.Errorf("block %d offset: got %d, want %d", i, b.Offset, i*8)
			}
		}
	})

	t.Run("stride below extent fails", func(t *testing.T) {
		if _, err := Vector(i32, 2, 4); !errors.Is(err, invalidLayout()) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("overlap requires the explicit variant", func(t *testing.T) {
		v, err := VectorOverlapped(i32, 2, 4)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Blocks()) != 4 {
			t.Errorf("blocks: got %d, want 4", len(v.Blocks()))
		}
	})

	t.Run("zero count", func(t *testing.T) {
		v, err := Vector(i32, 8, 0)
		if err != nil {
			t.Fatal(err)
		}
		if v.Extent() != 0 {
			t.Errorf("extent: got %d, want 0", v.Extent())
		}
	})

	t.Run("nested element", func(t *testing.T) {
		pair, err := Contiguous(i32, 2)
		if err != nil {
			t.Fatal(err)
		}
		v, err := Vector(pair, 16, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Blocks()) != 4 {
			t.Errorf("blocks: got %d, want 4", len(v.Blocks()))
		}
		if v.Extent() != 16+8 {
			t.Errorf("extent: got %d, want 24", v.Extent())
		}
	})
}

func TestIndexed(t *testing.T) {
	registry.Install()
	defer registry.Release()

	f32, _ := Of[float32]()

	t.Run("basic", func(t *testing.T) {
		ix, err := Indexed(f32, []uintptr{0, 8, 20})
		if err != nil {
			t.Fatal(err)
		}
		if ix.Extent() != 24 {
			t.Errorf("extent: got %d, want 24", ix.Extent())
		}
	})

	t.Run("decreasing offsets fail", func(t *testing.T) {
		if _, err := Indexed(f32, []uintptr{8, 0}); !errors.Is(err, invalidLayout()) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("overlapping offsets fail", func(t *testing.T) {
		if _, err := Indexed(f32, []uintptr{0, 2}); !errors.Is(err, invalidLayout()) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		ix, err := Indexed(f32, nil)
		if err != nil {
			t.Fatal(err)
		}
		if ix.Extent() != 0 || len(ix.Blocks()) != 0 {
			t.Errorf("got extent %d, %d blocks", ix.Extent(), len(ix.Blocks()))
		}
	})
}

func TestStruct(t *testing.T) {
	registry.Install()
	defer registry.Release()

	f64, _ := Of[float64]()
	i32, _ := Of[int32]()

	t.Run("extent covers the last field", func(t *testing.T) {
		s, err := Struct([]Field{
			{Offset: 0, Type: f64, Count: 3},
			{Offset: 24, Type: i32, Count: 1},
		})
		if err != nil {
			t.Fatal(err)
		}
		if s.Extent() != 28 {
			t.Errorf("extent: got %d, want 28", s.Extent())
		}
	})

	t.Run("offsets never reordered", func(t *testing.T) {
		_, err := Struct([]Field{
			{Offset: 8, Type: i32, Count: 1},
			{Offset: 0, Type: f64, Count: 1},
		})
		if !errors.Is(err, invalidLayout()) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("overlapping fields fail", func(t *testing.T) {
		_, err := Struct([]Field{
			{Offset: 0, Type: f64, Count: 1},
			{Offset: 4, Type: i32, Count: 1},
		})
		if !errors.Is(err, invalidLayout()) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("explicit extent adds padding", func(t *testing.T) {
		s, err := StructWithExtent([]Field{
			{Offset: 0, Type: f64, Count: 1},
			{Offset: 8, Type: i32, Count: 1},
		}, 16)
		if err != nil {
			t.Fatal(err)
		}
		if s.Extent() != 16 {
			t.Errorf("extent: got %d, want 16", s.Extent())
		}
	})

	t.Run("explicit extent below layout end fails", func(t *testing.T) {
		_, err := StructWithExtent([]Field{
			{Offset: 0, Type: f64, Count: 2},
		}, 8)
		if !errors.Is(err, invalidLayout()) {
			t.Errorf("wrong error: %v", err)
		}
	})

	t.Run("gap between fields is padding", func(t *testing.T) {
		s, err := Struct([]Field{
			{Offset: 0, Type: i32, Count: 1},
			{Offset: 8, Type: f64, Count: 1},
		})
		if err != nil {
			t.Fatal(err)
		}
		if s.Extent() != 16 {
			t.Errorf("extent: got %d, want 16", s.Extent())
		}
	})

	t.Run("empty struct", func(t *testing.T) {
		s, err := Struct(nil)
		if err != nil {
			t.Fatal(err)
		}
		if s.Extent() != 0 {
			t.Errorf("extent: got %d, want 0", s.Extent())
		}
	})
}

// particle is a sample user kind implementing Described.
type particle struct {
	Position [3]float64
	Charge   int32
	_        [4]byte
}

var particleType *Composite

func (particle) Describe() Datatype { return particleType }

func TestDescribedUserKind(t *testing.T) {
	registry.Install()
	defer registry.Release()

	f64, _ := Of[float64]()
	i32, _ := Of[int32]()

	var err error
	particleType, err = StructWithExtent([]Field{
		{Offset: 0, Type: f64, Count: 3},
		{Offset: 24, Type: i32, Count: 1},
	}, 32)
	if err != nil {
		t.Fatal(err)
	}

	var p particle
	dt := p.Describe()
	if dt.Extent() != 32 {
		t.Errorf("extent: got %d, want 32", dt.Extent())
	}
	if !reflect.DeepEqual(dt.Blocks(), p.Describe().Blocks()) {
		t.Error("Describe is not referentially stable")
	}
}
