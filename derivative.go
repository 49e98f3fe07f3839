package strokemesh

// UpdateMeshDerivatives recomputes side/forward derivatives and labels for
// every vertex from the first visually mutated exterior vertex of each side
// through the end of that side's outline, backtracking to the start of any
// coincident-vertex run so a run that straddles the mutation boundary is
// recomputed in full (coincident exterior vertices share an averaged side
// derivative).
//
// Should be called once per mutation-tracking cycle: each call rewrites the
// same range again from the same recorded offsets, and every rewritten
// vertex counts as mutated in the mesh view's own tracking.
func (g *Geometry) UpdateMeshDerivatives() {
	g.updateSideDerivatives(g.leftSide)
	g.updateSideDerivatives(g.rightSide)
}

func (g *Geometry) updateSideDerivatives(side *Side) {
	n := uint32(len(side.Indices))
	if n == 0 {
		return
	}
	start := g.firstMutatedOffsetForSide(side)
	start = backtrackToCoincidentRunStart(g.mesh, side.Indices, start)

	opp := g.opposingSide(side)

	for offset := start; offset < n; offset++ {
		idx := side.Indices[offset]

		fwd := forwardDerivativeAt(g.mesh, side.Indices, offset)

		runStart, runEnd := coincidentRun(g.mesh, side.Indices, offset)
		sideDeriv := averagedSideDerivative(g.mesh, side, opp, runStart, runEnd)

		margin := marginToOpposite(g.mesh, side, opp, offset)
		sideSign := -1
		if side.SelfID == SideRight {
			sideSign = 1
		}

		g.mesh.SetSideDerivative(idx, sideDeriv)
		g.mesh.SetForwardDerivative(idx, fwd)
		g.mesh.SetSideLabel(idx, EncodeLabel(sideSign, margin))
		// Forward label is set explicitly at partition start/end (the first
		// and last vertex of a partition); elsewhere a vertex is interior to
		// the stroke's direction of travel.
		if cur := g.mesh.GetForwardLabel(idx); cur != ExteriorFrontLabel && cur != ExteriorBackLabel {
			g.mesh.SetForwardLabel(idx, InteriorLabel)
		}
	}
}

func (g *Geometry) firstMutatedOffsetForSide(side *Side) uint32 {
	if side.SelfID == SideLeft {
		return g.firstMutatedLeftOffsetInPartition
	}
	return g.firstMutatedRightOffsetInPartition
}

// backtrackToCoincidentRunStart walks offset backward while the position at
// offset equals the position immediately before it.
func backtrackToCoincidentRunStart(mesh *MeshView, indices []uint32, offset uint32) uint32 {
	if offset == 0 || offset >= uint32(len(indices)) {
		if offset > uint32(len(indices)) {
			return uint32(len(indices))
		}
		return offset
	}
	pos := mesh.GetPosition(indices[offset])
	for offset > 0 && mesh.GetPosition(indices[offset-1]) == pos {
		offset--
	}
	return offset
}

// coincidentRun returns the inclusive-exclusive offset range of the maximal
// run of same-position vertices containing offset.
func coincidentRun(mesh *MeshView, indices []uint32, offset uint32) (start, end uint32) {
	n := uint32(len(indices))
	pos := mesh.GetPosition(indices[offset])
	start = offset
	for start > 0 && mesh.GetPosition(indices[start-1]) == pos {
		start--
	}
	end = offset + 1
	for end < n && mesh.GetPosition(indices[end]) == pos {
		end++
	}
	return start, end
}

func forwardDerivativeAt(mesh *MeshView, indices []uint32, offset uint32) Vec {
	n := uint32(len(indices))
	switch {
	case n < 2:
		return Vec{}
	case offset == 0:
		return mesh.GetPosition(indices[1]).Sub(mesh.GetPosition(indices[0]))
	case offset == n-1:
		return mesh.GetPosition(indices[n-1]).Sub(mesh.GetPosition(indices[n-2]))
	default:
		return mesh.GetPosition(indices[offset+1]).Sub(mesh.GetPosition(indices[offset-1])).Scale(0.5)
	}
}

// averagedSideDerivative approximates the partial derivative of position
// with respect to the lateral (cross-stroke) coordinate as the vector from
// the corresponding vertex on the opposite side to this one, averaged
// across every vertex in the coincident run [start, end).
func averagedSideDerivative(mesh *MeshView, side, opp *Side, start, end uint32) Vec {
	if len(opp.Indices) == 0 {
		return Vec{}
	}
	var sum Vec
	count := 0
	for offset := start; offset < end; offset++ {
		idx := side.Indices[offset]
		partner := oppositePartnerPosition(mesh, opp, offset)
		sum = sum.Add(mesh.GetPosition(idx).Sub(partner))
		count++
	}
	if count == 0 {
		return Vec{}
	}
	return sum.Scale(1 / float64(count))
}

func oppositePartnerPosition(mesh *MeshView, opp *Side, offset uint32) Point {
	n := uint32(len(opp.Indices))
	if n == 0 {
		return Point{}
	}
	partnerOffset := offset
	if partnerOffset >= n {
		partnerOffset = n - 1
	}
	return mesh.GetPosition(opp.Indices[partnerOffset])
}

func marginToOpposite(mesh *MeshView, side, opp *Side, offset uint32) float64 {
	if len(opp.Indices) == 0 {
		return MaximumMargin
	}
	partner := oppositePartnerPosition(mesh, opp, offset)
	self := mesh.GetPosition(side.Indices[offset])
	m := Distance(self, partner) / 2
	if m > MaximumMargin {
		m = MaximumMargin
	}
	return m
}
