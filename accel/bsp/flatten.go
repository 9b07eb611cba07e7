package bsp

import (
	"github.com/cakarsubasi/02562-raytracer/types"
)

// Intermediate bundles everything a GPU traverser needs to walk the
// tree: the scene bound, the leaf primitive indices and the flattened
// node and plane arrays.
type Intermediate struct {
	Bbox   types.GpuBbox
	IDs    []uint32
	Nodes  []types.Vec4u32
	Planes []float32
}

// NewIntermediate flattens the tree into its GPU upload form.
func NewIntermediate(t *Tree) Intermediate {
	planes, nodes := t.Arrays()
	return Intermediate{
		Bbox:   t.bbox.Gpu(),
		IDs:    t.PrimitiveIDs(),
		Nodes:  nodes,
		Planes: planes,
	}
}

// Arrays encodes the tree as an implicit binary heap: a node array and a
// parallel split plane array, both sized 2^(maxDepth+1)-1. The node at
// slot 2^depth+branch-1 packs as:
//
//	[0] node type in the low 2 bits (3 marks a leaf, anything lower is
//	    the split axis) with the object count above them
//	[1] for leaves, the first index into PrimitiveIDs
//	[2] left child slot
//	[3] right child slot
//
// Child slots are filled in for leaves as well; a traverser only follows
// them when the node type says split. Slots under pruned subtrees stay
// zeroed.
func (t *Tree) Arrays() ([]float32, []types.Vec4u32) {
	totalSlots := (1 << (t.maxDepth + 1)) - 1
	planes := make([]float32, totalSlots)
	nodes := make([]types.Vec4u32, totalSlots)

	nextID := uint32(0)
	var walk func(n *node, depth, branch uint32)
	walk = func(n *node, depth, branch uint32) {
		if depth > t.maxDepth {
			return
		}

		idx := (uint32(1) << depth) + branch - 1
		nodes[idx][1] = 0
		nodes[idx][2] = (uint32(1) << (depth + 1)) + 2*branch - 1
		nodes[idx][3] = (uint32(1) << (depth + 1)) + 2*branch
		planes[idx] = 0

		if n.isLeaf() {
			nodes[idx][0] = nodeTypeLeaf + uint32(n.count)<<2
			nodes[idx][1] = nextID
			nextID += uint32(len(n.objects))
			return
		}

		nodes[idx][0] = uint32(n.axis) + uint32(n.count)<<2
		planes[idx] = n.plane
		walk(n.left, depth+1, branch*2)
		walk(n.right, depth+1, branch*2+1)
	}
	walk(t.root, 0, 0)

	return planes, nodes
}

// PrimitiveIDs returns the object indices of every leaf, visiting leaves
// left to right. Straddling objects appear once per leaf that holds
// them. The leaf cursors written by Arrays index into this slice.
func (t *Tree) PrimitiveIDs() []uint32 {
	ids := make([]uint32, 0, t.root.count)

	var walk func(n *node)
	walk = func(n *node) {
		if n.isLeaf() {
			for _, obj := range n.objects {
				ids = append(ids, obj.Idx)
			}
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)

	return ids
}
