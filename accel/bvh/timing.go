package bvh

import "time"

// ConstructionTime breaks a build down into its phases. New fills in
// everything except Flattening, which belongs to the caller since a
// tree can be flattened independently of the build.
type ConstructionTime struct {
	MortonCodes  time.Duration
	RadixSort    time.Duration
	TreeletInit  time.Duration
	TreeletBuild time.Duration
	UpperTree    time.Duration
	Flattening   time.Duration
}

// Total sums all phases.
func (c ConstructionTime) Total() time.Duration {
	return c.MortonCodes + c.RadixSort + c.TreeletInit + c.TreeletBuild + c.UpperTree + c.Flattening
}

// Add accumulates another measurement into this one.
func (c *ConstructionTime) Add(other ConstructionTime) {
	c.MortonCodes += other.MortonCodes
	c.RadixSort += other.RadixSort
	c.TreeletInit += other.TreeletInit
	c.TreeletBuild += other.TreeletBuild
	c.UpperTree += other.UpperTree
	c.Flattening += other.Flattening
}

// Div divides every phase by the given run count, turning an
// accumulated measurement into a mean.
func (c *ConstructionTime) Div(runs uint32) {
	n := time.Duration(runs)
	c.MortonCodes /= n
	c.RadixSort /= n
	c.TreeletInit /= n
	c.TreeletBuild /= n
	c.UpperTree /= n
	c.Flattening /= n
}
