package bvh

import "github.com/cakarsubasi/02562-raytracer/types"

// GpuNode is the flattened node record uploaded to the GPU; 32 bytes,
// 16-byte aligned.
//
// For a leaf NumPrims is positive and OffsetPtr indexes the triangle
// index buffer (see Triangles). For an interior node NumPrims is zero
// and OffsetPtr holds the array index of the right child; the left
// child always sits at the next array slot.
type GpuNode struct {
	Min       types.Vec3
	OffsetPtr uint32
	Max       types.Vec3
	NumPrims  uint32
}

// Flatten linearizes the tree into a depth-first array of exactly
// TotalNodes records: interior nodes find their left child at the next
// slot and their right child through OffsetPtr. Flatten is deterministic
// and may be called any number of times.
func (t *Tree) Flatten() []GpuNode {
	nodes := make([]GpuNode, t.totalNodes)
	offset := uint32(0)
	flattenRecursive(nodes, t.root, &offset)
	return nodes
}

func flattenRecursive(nodes []GpuNode, node *buildNode, offset *uint32) uint32 {
	nodeOffset := *offset
	*offset++

	linear := &nodes[nodeOffset]
	linear.Min = node.bbox.Min
	linear.Max = node.bbox.Max

	if node.isLeaf() {
		linear.NumPrims = node.numPrimitives
		linear.OffsetPtr = node.firstPrimOffset
	} else {
		linear.NumPrims = 0
		flattenRecursive(nodes, node.left, offset)
		linear.OffsetPtr = flattenRecursive(nodes, node.right, offset)
	}

	return nodeOffset
}

// Triangles returns the triangle indices of the reordered primitives.
// Leaf nodes address this array through OffsetPtr and NumPrims.
func (t *Tree) Triangles() []uint32 {
	indices := make([]uint32, len(t.primitives))
	for i, obj := range t.primitives {
		indices[i] = obj.Idx
	}
	return indices
}
