package strokemesh

// FindLastClockwiseWindingTriangleFanSegment checks each triangle of the fan
// formed by centralPosition and consecutive pairs of outerIndices (ordered
// from the back of the stroke to the front), and returns the outer edge of
// the last one found with clockwise winding (negative signed area), if any.
// Degenerate (coincident) consecutive positions are skipped rather than
// treated as clockwise.
//
// outerSide determines the winding order used to build each candidate
// triangle: on the left side the two outer positions are swapped relative to
// the right side, matching the conventional orientation of the stroke's two
// outlines.
func FindLastClockwiseWindingTriangleFanSegment(mesh *MeshView, outerIndices []uint32, outerSide SideID, centralPosition Point) (Segment, bool) {
	if len(outerIndices) < 2 {
		return Segment{}, false
	}
	lastPosition := mesh.GetPosition(outerIndices[len(outerIndices)-1])
	for i := len(outerIndices) - 1; i > 0; i-- {
		currentPosition := mesh.GetPosition(outerIndices[i-1])
		if currentPosition == lastPosition {
			continue
		}
		tri := Triangle{P0: centralPosition, P1: currentPosition, P2: lastPosition}
		if outerSide == SideLeft {
			tri.P1, tri.P2 = tri.P2, tri.P1
		}
		if tri.SignedArea() < 0 {
			return tri.Edge(1), true
		}
		lastPosition = currentPosition
	}
	return Segment{}, false
}

// FindLastClockwiseWindingMultiTriangleFanSegment is like
// FindLastClockwiseWindingTriangleFanSegment, but accounts for the outer
// vertices coming in multiple contiguous runs of outerSide.Indices separated
// by the offset ranges left behind in
// outerSide.IntersectionDiscontinuities by abandoned retriangulations.
func FindLastClockwiseWindingMultiTriangleFanSegment(mesh *MeshView, outerSide *Side, outerRange IndexOffsetRange, centralPosition Point) (Segment, bool) {
	if len(outerSide.Indices) == 0 || outerRange.Last <= outerRange.First {
		return Segment{}, false
	}

	upperBound := uint32(len(outerSide.Indices)) - 1
	for i := len(outerSide.IntersectionDiscontinuities); i > 0; i-- {
		if upperBound < outerRange.First {
			return Segment{}, false
		}
		discontinuity := outerSide.IntersectionDiscontinuities[i-1]
		lowerBound := discontinuity.Last
		first := maxU32(lowerBound, outerRange.First)
		last := minU32(upperBound, outerRange.Last)
		upperBound = discontinuity.First
		if last < first {
			continue
		}

		indices := outerSide.Indices[first : last+1]
		if seg, ok := FindLastClockwiseWindingTriangleFanSegment(mesh, indices, outerSide.SelfID, centralPosition); ok {
			return seg, true
		}

		if outerRange.First <= discontinuity.First {
			bridge := []uint32{outerSide.Indices[discontinuity.First], outerSide.Indices[discontinuity.Last]}
			if seg, ok := FindLastClockwiseWindingTriangleFanSegment(mesh, bridge, outerSide.SelfID, centralPosition); ok {
				return seg, true
			}
		}
	}

	first := outerRange.First
	last := minU32(upperBound, outerRange.Last)
	if last <= first {
		return Segment{}, false
	}
	return FindLastClockwiseWindingTriangleFanSegment(mesh, outerSide.Indices[first:last+1], outerSide.SelfID, centralPosition)
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
