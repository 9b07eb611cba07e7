// Package mesh loads triangle geometry from Wavefront object files and
// derives the bounded objects that the acceleration structure builders
// consume.
package mesh

import (
	"math"

	"github.com/cakarsubasi/02562-raytracer/accel"
	"github.com/cakarsubasi/02562-raytracer/types"
)

// MaterialNone marks triangles without a material assignment.
const MaterialNone uint32 = math.MaxUint32

// Mesh holds triangle geometry in GPU upload layout: positions and normals
// padded to 16 bytes and one index record per triangle. The last component
// of each index record carries the triangle's material slot.
type Mesh struct {
	Vertices []types.Vec4
	Normals  []types.Vec4
	Indices  []types.Vec4u32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() uint32 {
	return uint32(len(m.Indices))
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() uint32 {
	return uint32(len(m.Vertices))
}

// Scale multiplies vertex positions by factor, leaving the padding
// component untouched.
func (m *Mesh) Scale(factor float32) {
	for i := range m.Vertices {
		m.Vertices[i][0] *= factor
		m.Vertices[i][1] *= factor
		m.Vertices[i][2] *= factor
	}
}

// Bboxes returns one bounded object per triangle, in triangle order. The
// object indices returned here are what the acceleration structures hand
// back from their flattened forms.
func (m *Mesh) Bboxes() []accel.AccObj {
	objs := make([]accel.AccObj, len(m.Indices))
	for idx, triangle := range m.Indices {
		objs[idx] = accel.AccObj{
			Idx: uint32(idx),
			Bbox: types.BboxFromTriangle(
				m.Vertices[triangle[0]].Vec3(),
				m.Vertices[triangle[1]].Vec3(),
				m.Vertices[triangle[2]].Vec3(),
			),
		}
	}
	return objs
}

// Bbox returns the union bound of every triangle in the mesh.
func (m *Mesh) Bbox() types.Bbox {
	bbox := types.NewBbox()
	for _, obj := range m.Bboxes() {
		bbox.IncludeBbox(obj.Bbox)
	}
	return bbox
}
