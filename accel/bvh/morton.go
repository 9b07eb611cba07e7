package bvh

const (
	// 30-bit morton codes as described in the PBR book: each centroid is
	// mapped to a point in [0,1)^3 relative to the overall bound, which
	// 10 bits of fixed precision per axis can represent.
	mortonBits  = 10
	mortonScale = 1 << mortonBits

	// Treelets pool primitives that share the most significant 12 bits
	// of their morton code (4 bits per axis).
	treeletMask uint32 = 0x3FFC0000

	// The bit position treelet builds start descending from (29 - 12).
	firstBitIndex = 17

	radixLevels = 4
)

// mortonPrimitive wraps a primitive index with its morton code.
type mortonPrimitive struct {
	index uint32
	code  uint32 // 30 bits used
}

// leftShift3 takes a 10-bit number and tiles it with two zero bits
// between every original bit: xyzw -> --x--y--z--w.
//
// From the PBR book:
// https://www.pbr-book.org/4ed/Utilities/Mathematical_Infrastructure#x7-MortonIndexing
func leftShift3(x uint32) uint32 {
	if x == 1<<mortonBits {
		x--
	}
	x = (x | (x << 16)) & 0x030000FF
	x = (x | (x << 8)) & 0x0300F00F
	x = (x | (x << 4)) & 0x030C30C3
	x = (x | (x << 2)) & 0x09249249
	return x
}

// encodeMorton3 interleaves the three coordinates into a 30-bit code
// with x in the lowest bit position of every triple.
func encodeMorton3(x, y, z float32) uint32 {
	return leftShift3(uint32(z))<<2 | leftShift3(uint32(y))<<1 | leftShift3(uint32(x))
}

// radixSortMorton sorts the primitives by code using an LSD counting
// sort over 4 byte-sized key levels. The top two bits of the key are
// always zero but sorting the full 32 bits keeps the passes uniform.
// The sort is stable: primitives sharing a code keep their input order.
func radixSortMorton(prims []mortonPrimitive) {
	buf := make([]mortonPrimitive, len(prims))
	src, dst := prims, buf

	for level := 0; level < radixLevels; level++ {
		shift := uint(level * 8)

		var offsets [256]int
		for _, p := range src {
			offsets[byte(p.code>>shift)]++
		}
		next := 0
		for i, count := range offsets {
			offsets[i] = next
			next += count
		}

		for _, p := range src {
			key := byte(p.code >> shift)
			dst[offsets[key]] = p
			offsets[key]++
		}
		src, dst = dst, src
	}
	// radixLevels is even so the final pass lands back in prims
}
