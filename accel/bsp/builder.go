// Package bsp builds binary space partitioning trees over axis aligned
// bounding boxes and encodes them into flat GPU arrays. Based on the BSP
// tree in GEL (http://www.imm.dtu.dk/GEL/) originally written by Bent
// Dalgaard Larsen.
package bsp

import (
	"fmt"
	"math"
	"time"

	"github.com/cakarsubasi/02562-raytracer/accel"
	"github.com/cakarsubasi/02562-raytracer/log"
	"github.com/cakarsubasi/02562-raytracer/types"
)

const (
	nodeTypeLeaf uint32 = 3

	// Candidate split planes per axis sit at the interior quarter
	// points of the node extent.
	splitTests = 4

	fEps float32 = 1e-6
)

var logger = log.New("bsp")

// Tree is a binary space partitioning tree of bounded depth.
type Tree struct {
	root     *node
	maxDepth uint32
	bbox     types.Bbox
}

// node is either a leaf holding object copies or a split with two
// children; left is nil for leaves. count is the object count at this
// level, duplicates included.
type node struct {
	count   int
	objects []accel.AccObj

	axis  accel.Axis
	plane float32
	left  *node
	right *node
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// New builds a BSP tree over the given objects. Subdivision stops when a
// region holds maxObjectsPerLeaf or fewer objects or when maxDepth is
// reached; maxDepth must stay below 32 so the flat array of
// 2^(maxDepth+1)-1 slots remains addressable.
func New(objects []accel.AccObj, maxDepth, maxObjectsPerLeaf uint32) *Tree {
	if len(objects) >= math.MaxUint32 {
		panic("bsp: cannot build trees with more than 4 billion objects")
	}
	if len(objects) == 0 {
		panic("bsp: cannot build a tree without any objects")
	}
	if maxDepth == 0 || maxDepth >= 32 {
		panic(fmt.Sprintf("bsp: depth must be positive and smaller than 32, got %d", maxDepth))
	}
	if maxObjectsPerLeaf == 0 {
		panic(fmt.Sprintf("bsp: leaf object limit must be positive, got %d", maxObjectsPerLeaf))
	}

	start := time.Now()

	bbox := types.NewBbox()
	for _, obj := range objects {
		bbox.IncludeBbox(obj.Bbox)
	}

	tree := &Tree{
		root:     subdivide(bbox, 0, maxDepth, maxObjectsPerLeaf, objects),
		maxDepth: maxDepth,
		bbox:     bbox,
	}

	logger.Debugf(
		"built BSP tree in %d ms (%d objects, depth limit %d)",
		time.Since(start).Nanoseconds()/1e6, len(objects), maxDepth,
	)

	return tree
}

// Count returns the object count at the root, before any duplication.
func (t *Tree) Count() int {
	return t.root.count
}

// MaxDepth returns the depth limit the tree was built with.
func (t *Tree) MaxDepth() uint32 {
	return t.maxDepth
}

func subdivide(bbox types.Bbox, depth, maxDepth, maxObjectsPerLeaf uint32, objects []accel.AccObj) *node {
	if uint32(len(objects)) <= maxObjectsPerLeaf || depth == maxDepth {
		leafObjects := make([]accel.AccObj, len(objects))
		copy(leafObjects, objects)
		return &node{count: len(objects), objects: leafObjects}
	}

	// Score the candidate planes on every axis and keep the cheapest:
	// cost = object count on a side * surface area of that side.
	var (
		splitAxis       uint32
		plane          float32
		leftNodeCount  int
		rightNodeCount int
	)
	minCost := float32(1e27)

	for i := uint32(0); i < 3; i++ {
		for k := 1; k < splitTests; k++ {
			leftBbox := bbox
			rightBbox := bbox
			maxCorner := bbox.Max[i]
			minCorner := bbox.Min[i]
			center := (maxCorner-minCorner)*float32(k)/float32(splitTests) + minCorner
			leftBbox.Max[i] = center
			rightBbox.Min[i] = center

			leftCount, rightCount := 0, 0
			for _, obj := range objects {
				if leftBbox.Intersects(obj.Bbox) {
					leftCount++
				}
				if rightBbox.Intersects(obj.Bbox) {
					rightCount++
				}
			}

			cost := float32(leftCount)*leftBbox.Area() + float32(rightCount)*rightBbox.Area()
			if cost < minCost {
				minCost = cost
				splitAxis = i
				plane = center
				leftNodeCount = leftCount
				rightNodeCount = rightCount
			}
		}
	}

	// If the chosen plane strands every object on one side, move it just
	// past the tightest-touching face on the populated side.
	maxCorner := bbox.Max[splitAxis]
	minCorner := bbox.Min[splitAxis]
	size := maxCorner - minCorner
	diff := fEps
	if size/8.0 > fEps {
		diff = size / 8.0
	}
	center := plane

	if leftNodeCount == 0 {
		center = maxCorner
		for _, obj := range objects {
			if objMinCorner := obj.Bbox.Min[splitAxis]; objMinCorner < center {
				center = objMinCorner
			}
		}
		center -= diff
	}
	if rightNodeCount == 0 {
		center = minCorner
		for _, obj := range objects {
			if objMaxCorner := obj.Bbox.Max[splitAxis]; objMaxCorner > center {
				center = objMaxCorner
			}
		}
		center += diff
	}

	plane = center
	leftBbox := bbox
	rightBbox := bbox
	leftBbox.Max[splitAxis] = center
	rightBbox.Min[splitAxis] = center

	// Objects straddling the plane go to both children.
	var leftObjects, rightObjects []accel.AccObj
	for _, obj := range objects {
		if leftBbox.Intersects(obj.Bbox) {
			leftObjects = append(leftObjects, obj)
		}
		if rightBbox.Intersects(obj.Bbox) {
			rightObjects = append(rightObjects, obj)
		}
	}

	return &node{
		count: len(objects),
		axis:  accel.AxisFromUint32(splitAxis),
		plane: plane,
		left:  subdivide(leftBbox, depth+1, maxDepth, maxObjectsPerLeaf, leftObjects),
		right: subdivide(rightBbox, depth+1, maxDepth, maxObjectsPerLeaf, rightObjects),
	}
}
