package types

// Bbox is an axis aligned bounding box.
type Bbox struct {
	Min Vec3
	Max Vec3
}

// GpuBbox mirrors Bbox with the 16-byte alignment and padding the GPU
// expects for a vec3 pair; 32 bytes total.
type GpuBbox struct {
	Min Vec3
	_   float32
	Max Vec3
	_   float32
}

// NewBbox creates a bounding box that includes nothing. Unioning it with
// any other box yields that box.
func NewBbox() Bbox {
	return Bbox{
		Min: Vec3{1e37, 1e37, 1e37},
		Max: Vec3{-1e37, -1e37, -1e37},
	}
}

// BboxFromTriangle creates a bounding box around the given triangle.
func BboxFromTriangle(v0, v1, v2 Vec3) Bbox {
	return Bbox{
		Min: MinVec3(v0, MinVec3(v1, v2)),
		Max: MaxVec3(v0, MaxVec3(v1, v2)),
	}
}

// Extend the bounding box to include the given vertex.
func (b *Bbox) IncludeVertex(v Vec3) {
	b.Min = MinVec3(b.Min, v)
	b.Max = MaxVec3(b.Max, v)
}

// Extend the bounding box to include the given bounding box.
func (b *Bbox) IncludeBbox(other Bbox) {
	b.Min = MinVec3(b.Min, other.Min)
	b.Max = MaxVec3(b.Max, other.Max)
}

// Get the center of the bounding box.
func (b Bbox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the extents of the bounding box, also called the diagonal.
func (b Bbox) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the surface area of the bounding box.
func (b Bbox) Area() float32 {
	d := b.Extent()
	return 2.0 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

// Get the longest axis of the bounding box as an index.
func (b Bbox) LongestAxis() uint32 {
	d := b.Extent()
	if d[0] > d[1] {
		if d[0] > d[2] {
			return 0
		}
		return 2
	}
	if d[1] > d[2] {
		return 1
	}
	return 2
}

// Check if the bounding box overlaps the other bounding box. Boxes that
// merely touch on a face count as intersecting.
func (b Bbox) Intersects(other Bbox) bool {
	return !(other.Min[0] > b.Max[0] || other.Max[0] < b.Min[0]) &&
		!(other.Min[1] > b.Max[1] || other.Max[1] < b.Min[1]) &&
		!(other.Min[2] > b.Max[2] || other.Max[2] < b.Min[2])
}

// Offset returns the relative position of a point inside the box: the
// minimum corner maps to (0,0,0) and the maximum corner to (1,1,1).
// Axes with no extent skip the division and keep the raw distance from
// the minimum corner.
//
// From the PBR book.
func (b Bbox) Offset(point Vec3) Vec3 {
	o := point.Sub(b.Min)
	if b.Max[0] > b.Min[0] {
		o[0] /= b.Max[0] - b.Min[0]
	}
	if b.Max[1] > b.Min[1] {
		o[1] /= b.Max[1] - b.Min[1]
	}
	if b.Max[2] > b.Min[2] {
		o[2] /= b.Max[2] - b.Min[2]
	}
	return o
}

// Gpu returns the bounding box in the padded GPU layout.
func (b Bbox) Gpu() GpuBbox {
	return GpuBbox{Min: b.Min, Max: b.Max}
}
