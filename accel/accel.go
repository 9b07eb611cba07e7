// Package accel defines the shared input types for the acceleration
// structure builders. Callers derive a flat []AccObj from their triangle
// list and hand it to the bvh or bsp packages.
package accel

import (
	"fmt"

	"github.com/cakarsubasi/02562-raytracer/types"
)

// Axis selects the coordinate a split node partitions on.
type Axis uint32

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AxisFromUint32 converts a raw axis index to an Axis. Values above 2
// indicate a corrupted axis index and trigger a panic.
func AxisFromUint32(value uint32) Axis {
	if value > 2 {
		panic(fmt.Sprintf("accel: unexpected axis value %d", value))
	}
	return Axis(value)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// AccObj pairs a primitive index with its bounding box. The index points
// at the primitive (in this case the triangle) in the caller's index
// buffer that the box was derived from.
type AccObj struct {
	Idx  uint32
	Bbox types.Bbox
}
