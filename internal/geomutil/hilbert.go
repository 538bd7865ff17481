package geomutil

// HilbertEncode maps (x, y) on a 2^order grid to its distance along the
// Hilbert curve of that order. Shared by any component that needs a
// space-filling-curve ranking of 2-D points (HPRTree's bulk-load packing
// order is the primary consumer).
func HilbertEncode(order int, x, y uint32) uint64 {
	var rx, ry uint32
	var d uint64
	for s := uint32(1) << (order - 1); s > 0; s >>= 1 {
		if x&s > 0 {
			rx = 1
		} else {
			rx = 0
		}
		if y&s > 0 {
			ry = 1
		} else {
			ry = 0
		}
		d += uint64(s) * uint64(s) * uint64((3*rx)^ry)
		x, y = hilbertRotate(s, x, y, rx, ry)
	}
	return d
}

func hilbertRotate(s, x, y, rx, ry uint32) (uint32, uint32) {
	if ry == 0 {
		if rx == 1 {
			x = s - 1 - x
			y = s - 1 - y
		}
		x, y = y, x
	}
	return x, y
}

// GridCoord folds an arbitrary float coordinate onto [0, side) using a
// fixed +/-window normalisation; only relative order across an item set
// matters for Hilbert packing, so the exact window width is not load
// bearing as long as it comfortably bounds the input coordinates.
func GridCoord(v float64, side uint32) uint32 {
	const window = 1 << 20
	scaled := (v + window) / (2 * window) * float64(side)
	if scaled < 0 {
		return 0
	}
	if scaled >= float64(side) {
		return side - 1
	}
	return uint32(scaled)
}
