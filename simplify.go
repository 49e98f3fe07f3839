package strokemesh

// SimplifyPolyline reduces positions to the subsequence that approximates it
// within travelLimit, using the Ramer-Douglas-Peucker algorithm: a point is
// dropped only if its perpendicular distance from the chord connecting its
// surviving neighbors is at most travelLimit. The first and last positions
// are always kept.
//
// Returns the indices (into positions) of the retained points, in order.
func SimplifyPolyline(positions []Point, travelLimit float64) []int {
	n := len(positions)
	if n <= 2 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true
	rdpRange(positions, 0, n-1, travelLimit, keep)
	out := make([]int, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, i)
		}
	}
	return out
}

func rdpRange(positions []Point, first, last int, travelLimit float64, keep []bool) {
	if last <= first+1 {
		return
	}
	chord := Segment{positions[first], positions[last]}
	maxDist := -1.0
	maxIdx := -1
	for i := first + 1; i < last; i++ {
		d := DistanceToPoint(chord, positions[i])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxIdx < 0 || maxDist <= travelLimit {
		return
	}
	keep[maxIdx] = true
	rdpRange(positions, first, maxIdx, travelLimit, keep)
	rdpRange(positions, maxIdx, last, travelLimit, keep)
}
