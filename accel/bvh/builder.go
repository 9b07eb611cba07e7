package bvh

import (
	"math"
	"sync"
	"time"

	"github.com/cakarsubasi/02562-raytracer/accel"
	"github.com/cakarsubasi/02562-raytracer/log"
	"github.com/cakarsubasi/02562-raytracer/types"
)

var logger = log.New("bvh")

// Tree is a bounding volume hierarchy over a set of accelerable objects.
type Tree struct {
	// Root node of the build tree.
	root *buildNode

	// Reordered copy of the input objects. Primitives belonging to a
	// leaf sit next to one another so leaves only store an offset and a
	// count; the GPU indexes a separate buffer with the actual triangle
	// indices (see Triangles).
	primitives []accel.AccObj

	// Total number of nodes in the tree, leaves included.
	totalNodes uint32

	// Per-phase build timings. The flattening phase is filled in by
	// callers that time Flatten separately.
	Time ConstructionTime
}

// buildNode is either a leaf or an interior node. Interior nodes own
// both children; left is nil for leaves.
type buildNode struct {
	bbox types.Bbox

	firstPrimOffset uint32
	numPrimitives   uint32

	axis  accel.Axis
	left  *buildNode
	right *buildNode
}

func newLeafNode(firstPrimOffset, numPrimitives uint32, bbox types.Bbox) *buildNode {
	return &buildNode{
		bbox:            bbox,
		firstPrimOffset: firstPrimOffset,
		numPrimitives:   numPrimitives,
	}
}

func newInteriorNode(axis accel.Axis, left, right *buildNode) *buildNode {
	bbox := left.bbox
	bbox.IncludeBbox(right.bbox)
	return &buildNode{
		bbox:  bbox,
		axis:  axis,
		left:  left,
		right: right,
	}
}

func (n *buildNode) isLeaf() bool {
	return n.left == nil
}

// treeletBuild tracks one run of morton-sorted primitives that share
// their top treeletMask bits. Each treelet owns the output range
// [start, start+numPrimitives) of the reordered primitive buffer, so
// treelet builds never contend for an output slot.
type treeletBuild struct {
	start         int
	numPrimitives int

	root  *buildNode
	nodes uint32
}

// New constructs a bounding volume hierarchy over the given objects
// using the Hierarchical Linear BVH method described in the PBR book:
// https://www.pbr-book.org/4ed/Primitives_and_Intersection_Acceleration/Bounding_Volume_Hierarchies
//
// Leaves hold fewer than maxPrimsPerLeaf primitives except where the
// morton bits cannot separate a run of coincident centroids. When
// parallel is set the treelet phase fans out to one goroutine per
// treelet; both modes produce the same tree.
func New(objects []accel.AccObj, maxPrimsPerLeaf uint32, parallel bool) *Tree {
	if len(objects) >= math.MaxUint32 {
		panic("bvh: cannot build trees with more than 4 billion objects")
	}
	if len(objects) == 0 {
		panic("bvh: cannot build a tree without any objects")
	}

	tree := &Tree{}
	buildStart := time.Now()

	// The morton code bound covers the primitive centroids, not their
	// extents.
	start := time.Now()
	bound := types.NewBbox()
	for _, obj := range objects {
		bound.IncludeVertex(obj.Bbox.Center())
	}

	mortonPrims := make([]mortonPrimitive, len(objects))
	for i := range mortonPrims {
		offset := bound.Offset(objects[i].Bbox.Center()).Mul(mortonScale)
		mortonPrims[i].index = uint32(i)
		mortonPrims[i].code = encodeMorton3(offset[0], offset[1], offset[2])
	}
	tree.Time.MortonCodes = time.Since(start)

	start = time.Now()
	radixSortMorton(mortonPrims)
	tree.Time.RadixSort = time.Since(start)

	start = time.Now()
	treelets := initTreelets(mortonPrims)
	tree.Time.TreeletInit = time.Since(start)

	start = time.Now()
	ordered := make([]accel.AccObj, len(objects))
	buildTreelets(treelets, objects, mortonPrims, ordered, maxPrimsPerLeaf, parallel)

	totalNodes := uint32(0)
	roots := make([]*buildNode, len(treelets))
	for i := range treelets {
		roots[i] = treelets[i].root
		totalNodes += treelets[i].nodes
	}
	tree.Time.TreeletBuild = time.Since(start)

	// Collapse the treelet roots into a single tree.
	start = time.Now()
	tree.root = collapseBuildNodes(roots, &totalNodes)
	tree.Time.UpperTree = time.Since(start)

	tree.primitives = ordered
	tree.totalNodes = totalNodes

	logger.Debugf(
		"built BVH in %d ms (%d objects, %d treelets, %d nodes, parallel: %t)",
		time.Since(buildStart).Nanoseconds()/1e6,
		len(objects), len(treelets), totalNodes, parallel,
	)

	return tree
}

// TotalNodes returns the number of nodes in the tree, leaves included.
func (t *Tree) TotalNodes() uint32 {
	return t.totalNodes
}

// initTreelets splits the sorted primitives into maximal runs that share
// the same morton code under treeletMask.
func initTreelets(mortonPrims []mortonPrimitive) []treeletBuild {
	var treelets []treeletBuild

	start, end := 0, 1
	for end <= len(mortonPrims) {
		if end == len(mortonPrims) ||
			(mortonPrims[start].code&treeletMask) != (mortonPrims[end].code&treeletMask) {
			treelets = append(treelets, treeletBuild{
				start:         start,
				numPrimitives: end - start,
			})
			start = end
		}
		end++
	}

	return treelets
}

// buildTreelets emits a subtree per treelet, sequentially or with one
// goroutine per treelet. Each goroutine only writes its own treelet
// entry and its own pre-assigned range of ordered, so no coordination
// beyond the WaitGroup is needed.
func buildTreelets(treelets []treeletBuild, objects []accel.AccObj, mortonPrims []mortonPrimitive, ordered []accel.AccObj, maxPrimsPerLeaf uint32, parallel bool) {
	if !parallel {
		for i := range treelets {
			t := &treelets[i]
			t.root = emitLBVH(objects, mortonPrims, t.start, t.numPrimitives, ordered, firstBitIndex, maxPrimsPerLeaf, &t.nodes)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(treelets))
	for i := range treelets {
		go func(t *treeletBuild) {
			defer wg.Done()
			t.root = emitLBVH(objects, mortonPrims, t.start, t.numPrimitives, ordered, firstBitIndex, maxPrimsPerLeaf, &t.nodes)
		}(&treelets[i])
	}
	wg.Wait()
}

// emitLBVH builds the subtree for the primitives in the morton-sorted
// range [mortonOffset, mortonOffset+numPrims), descending one code bit
// per level. Leaves copy their primitives into the matching range of
// ordered, which makes a leaf's first primitive offset equal to its
// morton offset and keeps concurrent treelet builds out of each other's
// slices.
func emitLBVH(objects []accel.AccObj, mortonPrims []mortonPrimitive, mortonOffset, numPrims int, ordered []accel.AccObj, bitIndex int, maxPrimsPerLeaf uint32, totalNodes *uint32) *buildNode {
	// Out of bits or few enough primitives to stop here.
	if bitIndex <= -1 || uint32(numPrims) < maxPrimsPerLeaf {
		bbox := types.NewBbox()
		for i := 0; i < numPrims; i++ {
			primIndex := mortonPrims[mortonOffset+i].index
			ordered[mortonOffset+i] = objects[primIndex]
			bbox.IncludeBbox(objects[primIndex].Bbox)
		}

		*totalNodes++
		return newLeafNode(uint32(mortonOffset), uint32(numPrims), bbox)
	}

	mask := uint32(1) << uint(bitIndex)

	// If this bit does not discriminate within the range, move on to the
	// next one without splitting.
	if mortonPrims[mortonOffset].code&mask == mortonPrims[mortonOffset+numPrims-1].code&mask {
		return emitLBVH(objects, mortonPrims, mortonOffset, numPrims, ordered, bitIndex-1, maxPrimsPerLeaf, totalNodes)
	}

	// Binary search for the first primitive whose bit differs from the
	// first element's.
	first, size := 1, numPrims-2
	for size > 0 {
		half := size >> 1
		middle := first + half
		if mortonPrims[mortonOffset].code&mask == mortonPrims[mortonOffset+middle].code&mask {
			first = middle + 1
			size -= half + 1
		} else {
			size = half
		}
	}
	offset := first
	if limit := numPrims - 2; offset > limit {
		offset = limit
	}

	left := emitLBVH(objects, mortonPrims, mortonOffset, offset, ordered, bitIndex-1, maxPrimsPerLeaf, totalNodes)
	right := emitLBVH(objects, mortonPrims, mortonOffset+offset, numPrims-offset, ordered, bitIndex-1, maxPrimsPerLeaf, totalNodes)

	*totalNodes++
	return newInteriorNode(accel.AxisFromUint32(uint32(bitIndex%3)), left, right)
}

// collapseBuildNodes merges the treelet roots into a single tree by
// recursively splitting the list at the median of the longest centroid
// axis.
func collapseBuildNodes(nodes []*buildNode, totalNodes *uint32) *buildNode {
	if len(nodes) == 1 {
		return nodes[0]
	}

	centroidBound := types.NewBbox()
	for _, node := range nodes {
		centroidBound.IncludeVertex(node.bbox.Center())
	}
	axis := centroidBound.LongestAxis()

	mid := len(nodes) / 2
	selectNth(nodes, mid, axis)

	left := collapseBuildNodes(nodes[:mid], totalNodes)
	right := collapseBuildNodes(nodes[mid:], totalNodes)

	*totalNodes++
	return newInteriorNode(accel.AxisFromUint32(axis), left, right)
}

// selectNth partially sorts nodes by centroid coordinate on the given
// axis so that nodes[n] holds the element a full sort would put there,
// with everything before it no greater and everything after it no
// smaller.
func selectNth(nodes []*buildNode, n int, axis uint32) {
	lo, hi := 0, len(nodes)-1
	for lo < hi {
		p := partitionNodes(nodes, lo, hi, axis)
		switch {
		case p == n:
			return
		case p < n:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

func partitionNodes(nodes []*buildNode, lo, hi int, axis uint32) int {
	mid := lo + (hi-lo)/2
	nodes[mid], nodes[hi] = nodes[hi], nodes[mid]
	pivot := nodes[hi].bbox.Center()[axis]

	i := lo
	for j := lo; j < hi; j++ {
		if nodes[j].bbox.Center()[axis] < pivot {
			nodes[i], nodes[j] = nodes[j], nodes[i]
			i++
		}
	}
	nodes[i], nodes[hi] = nodes[hi], nodes[i]
	return i
}
