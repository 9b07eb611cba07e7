package types

import (
	"reflect"
	"testing"
	"unsafe"
)

func TestNewBboxIncludesNothing(t *testing.T) {
	bbox := NewBbox()

	point := Vec3{-2, 3, 0.5}
	bbox.IncludeVertex(point)

	if !reflect.DeepEqual(bbox.Min, point) || !reflect.DeepEqual(bbox.Max, point) {
		t.Fatalf("expected box around a single vertex to collapse to %v; got %v - %v", point, bbox.Min, bbox.Max)
	}

	bbox = NewBbox()
	other := Bbox{Min: Vec3{0, -1, 2}, Max: Vec3{1, 1, 3}}
	bbox.IncludeBbox(other)

	if !reflect.DeepEqual(bbox, other) {
		t.Fatalf("expected empty box union to equal the included box %v; got %v", other, bbox)
	}
}

func TestBboxFromTriangle(t *testing.T) {
	bbox := BboxFromTriangle(
		Vec3{0, 5, -1},
		Vec3{2, 0, 1},
		Vec3{-1, 1, 0},
	)

	expMin := Vec3{-1, 0, -1}
	expMax := Vec3{2, 5, 1}
	if !reflect.DeepEqual(bbox.Min, expMin) || !reflect.DeepEqual(bbox.Max, expMax) {
		t.Fatalf("expected triangle bound %v - %v; got %v - %v", expMin, expMax, bbox.Min, bbox.Max)
	}
}

func TestBboxMeasures(t *testing.T) {
	bbox := Bbox{Min: Vec3{1, 2, 3}, Max: Vec3{3, 6, 9}}

	expCenter := Vec3{2, 4, 6}
	if center := bbox.Center(); !ApproxEqual(center, expCenter, 1e-5) {
		t.Fatalf("expected center to be %v; got %v", expCenter, center)
	}

	expExtent := Vec3{2, 4, 6}
	if extent := bbox.Extent(); !ApproxEqual(extent, expExtent, 1e-5) {
		t.Fatalf("expected extent to be %v; got %v", expExtent, extent)
	}

	// 2 * (2*4 + 4*6 + 6*2)
	expArea := float32(88)
	if area := bbox.Area(); area != expArea {
		t.Fatalf("expected area to be %f; got %f", expArea, area)
	}
}

func TestLongestAxis(t *testing.T) {
	type spec struct {
		extent  Vec3
		expAxis uint32
	}
	specs := []spec{
		{Vec3{2, 1, 1}, 0},
		{Vec3{1, 2, 1}, 1},
		{Vec3{1, 1, 2}, 2},
		// Ties resolve toward the later axis
		{Vec3{2, 2, 1}, 1},
		{Vec3{2, 1, 2}, 2},
		{Vec3{1, 2, 2}, 2},
		{Vec3{2, 2, 2}, 2},
	}

	for idx, s := range specs {
		bbox := Bbox{Min: Vec3{}, Max: s.extent}
		if axis := bbox.LongestAxis(); axis != s.expAxis {
			t.Fatalf("[spec %d] expected longest axis of %v to be %d; got %d", idx, s.extent, s.expAxis, axis)
		}
	}
}

func TestIntersects(t *testing.T) {
	base := Bbox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}

	type spec struct {
		other  Bbox
		expHit bool
	}
	specs := []spec{
		// overlap
		{Bbox{Min: Vec3{0.5, 0.5, 0.5}, Max: Vec3{2, 2, 2}}, true},
		// containment
		{Bbox{Min: Vec3{0.25, 0.25, 0.25}, Max: Vec3{0.75, 0.75, 0.75}}, true},
		// touching faces count as intersecting
		{Bbox{Min: Vec3{1, 0, 0}, Max: Vec3{2, 1, 1}}, true},
		{Bbox{Min: Vec3{-1, -1, -1}, Max: Vec3{0, 0, 0}}, true},
		// separated on one axis
		{Bbox{Min: Vec3{1.01, 0, 0}, Max: Vec3{2, 1, 1}}, false},
		{Bbox{Min: Vec3{0, 0, -3}, Max: Vec3{1, 1, -2}}, false},
	}

	for idx, s := range specs {
		if hit := base.Intersects(s.other); hit != s.expHit {
			t.Fatalf("[spec %d] expected intersection test with %v to be %t; got %t", idx, s.other, s.expHit, hit)
		}
		// Intersection tests commute
		if hit := s.other.Intersects(base); hit != s.expHit {
			t.Fatalf("[spec %d] expected reversed intersection test to be %t; got %t", idx, s.expHit, hit)
		}
	}
}

func TestOffset(t *testing.T) {
	bbox := Bbox{Min: Vec3{0, 1, 0}, Max: Vec3{2, 1, 4}}

	// The y axis has no extent; the raw distance from the min corner is
	// kept there.
	offset := bbox.Offset(Vec3{1, 1, 3})
	expOffset := Vec3{0.5, 0, 0.75}
	if !ApproxEqual(offset, expOffset, 1e-5) {
		t.Fatalf("expected offset to be %v; got %v", expOffset, offset)
	}

	if offset := bbox.Offset(bbox.Min); !ApproxEqual(offset, Vec3{}, 1e-5) {
		t.Fatalf("expected min corner offset to be the origin; got %v", offset)
	}
}

func TestGpuBboxLayout(t *testing.T) {
	if size := unsafe.Sizeof(GpuBbox{}); size != 32 {
		t.Fatalf("expected GpuBbox to pack into 32 bytes; got %d", size)
	}

	var gpu GpuBbox
	if off := unsafe.Offsetof(gpu.Max); off != 16 {
		t.Fatalf("expected Max to sit at byte offset 16; got %d", off)
	}

	bbox := Bbox{Min: Vec3{1, 2, 3}, Max: Vec3{4, 5, 6}}
	gpu = bbox.Gpu()
	if !reflect.DeepEqual(gpu.Min, bbox.Min) || !reflect.DeepEqual(gpu.Max, bbox.Max) {
		t.Fatalf("expected GPU box to carry %v - %v; got %v - %v", bbox.Min, bbox.Max, gpu.Min, gpu.Max)
	}
}
