package strokemesh

import "math"

// DirectedPartialOutline describes a "U" shaped partial outline formed by
// two ranges of vertex indices on opposite sides of the stroke:
//
//	startingIndices[start+n]            endingIndices[start+n]
//	       | xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx |
//	       | xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx |
//	startingIndices[start] ------ endingIndices[start]
//
// Iteration proceeds backwards down the starting side and then forwards up
// the ending side. For example, starting = {1,2,3}, ending = {4,5,6} yields
// {3, 2, 1, 4, 5, 6}.
//
// The outline holds pointers to the backing slices rather than copies, so it
// stays valid as vertices are appended to either side.
type DirectedPartialOutline struct {
	startingIndices      *[]uint32
	startingIndicesStart uint32
	nStartingIndices     uint32
	endingIndices        *[]uint32
	endingIndicesStart   uint32
	nEndingIndices       uint32
}

// Size returns the total number of indices in the outline.
func (o DirectedPartialOutline) Size() uint32 { return o.nStartingIndices + o.nEndingIndices }

// StartingSideSize returns how many of the outline's indices come from the
// starting side.
func (o DirectedPartialOutline) StartingSideSize() uint32 { return o.nStartingIndices }

// At returns the i'th index of the outline, 0 <= i < Size().
func (o DirectedPartialOutline) At(i uint32) uint32 {
	if i >= o.Size() {
		panic("strokemesh: outline index out of range")
	}
	if i < o.nStartingIndices {
		return (*o.startingIndices)[o.startingIndicesStart+o.nStartingIndices-i-1]
	}
	return (*o.endingIndices)[o.endingIndicesStart+i-o.nStartingIndices]
}

// LastOutlineIndexOffset returns the offset into side.Indices of the last
// index considered part of the stroke's outline: usually the last committed
// index, but the intersection's starting offset if an in-progress
// self-intersection has begun retriangulating (beyond that point the
// indices are provisional).
func LastOutlineIndexOffset(side *Side) uint32 {
	if side.Intersection != nil && side.Intersection.RetriangulationStarted {
		return side.Intersection.StartingOffset
	}
	return uint32(len(side.Indices)) - 1
}

// ConstructPartialOutline builds the directed partial outline that starts at
// startingSide's current partition and walks forward to either the end of
// its committed indices or the start of an ongoing intersection, then
// crosses to do the same on endingSide (unless the partition's
// OutlineConnectsSides is false).
func ConstructPartialOutline(startingSide, endingSide *Side) DirectedPartialOutline {
	ps := startingSide.PartitionStart

	startingFirst := ps.AdjacentFirstIndexOffset
	startingLast := LastOutlineIndexOffset(startingSide)
	nStarting := startingLast - startingFirst + 1

	endingFirst := ps.OppositeFirstIndexOffset
	endingLast := LastOutlineIndexOffset(endingSide)
	var nEnding uint32
	if ps.OutlineConnectsSides {
		nEnding = endingLast - endingFirst + 1
	}

	return DirectedPartialOutline{
		startingIndices:      &startingSide.Indices,
		startingIndicesStart: startingFirst,
		nStartingIndices:     nStarting,
		endingIndices:        &endingSide.Indices,
		endingIndicesStart:   endingFirst,
		nEndingIndices:       nEnding,
	}
}

// OutlineSegmentIntersection describes where a segment crosses a
// DirectedPartialOutline.
type OutlineSegmentIntersection struct {
	Position                  Point
	StartingIndex, EndingIndex uint32
	OutlineInterpolationValue float64
	SegmentInterpolationValue float64
}

// OutlineIntersectionResult is the return value of FindOutlineIntersection.
type OutlineIntersectionResult struct {
	Intersection         *OutlineSegmentIntersection
	RemainingSearchBudget float64
}

// FindOutlineIntersection searches a DirectedPartialOutline for the first
// nondegenerate segment that crosses segment, walking outline segments in
// order and stopping once the cumulative distance traveled exceeds
// searchBudget.
//
// If containingTriangle is non-nil, the search also stops (with no
// intersection) as soon as it reaches an outline vertex outside that
// triangle, since anything found after that point cannot be a valid local
// intersection.
//
// If the whole outline is degenerate (a single index, or every vertex
// coincident), the result is a match against the outline's last vertex if
// that vertex lies on segment.
func FindOutlineIntersection(outline DirectedPartialOutline, seg Segment, mesh *MeshView, searchBudget float64, containingTriangle *Triangle) OutlineIntersectionResult {
	for i := uint32(1); i < outline.Size() && searchBudget > 0; i++ {
		outlineSeg := Segment{mesh.GetPosition(outline.At(i - 1)), mesh.GetPosition(outline.At(i))}
		if outlineSeg.IsDegenerate() {
			continue
		}
		if tOut, tSeg, ok := SegmentIntersection(outlineSeg, seg); ok {
			pos := outlineSeg.Start.Lerp(outlineSeg.End, tOut)
			searchBudget -= Distance(outlineSeg.Start, pos)
			return OutlineIntersectionResult{
				Intersection: &OutlineSegmentIntersection{
					Position:                  pos,
					StartingIndex:             i - 1,
					EndingIndex:               i,
					OutlineInterpolationValue: tOut,
					SegmentInterpolationValue: tSeg,
				},
				RemainingSearchBudget: math.Max(0, searchBudget),
			}
		}
		if containingTriangle != nil && !containingTriangle.Contains(outlineSeg.End) {
			searchBudget = 0
			break
		}
		searchBudget -= outlineSeg.Length()
	}

	if outline.Size() > 0 && searchBudget > 0 {
		last := outline.Size() - 1
		lastPos := mesh.GetPosition(outline.At(last))
		degenerate := Segment{lastPos, lastPos}
		if tSeg, tOut, ok := SegmentIntersection(seg, degenerate); ok {
			return OutlineIntersectionResult{
				Intersection: &OutlineSegmentIntersection{
					Position:                  lastPos,
					StartingIndex:             last,
					EndingIndex:               last,
					OutlineInterpolationValue: tOut,
					SegmentInterpolationValue: tSeg,
				},
				RemainingSearchBudget: math.Max(0, searchBudget),
			}
		}
	}

	return OutlineIntersectionResult{RemainingSearchBudget: math.Max(0, searchBudget)}
}
