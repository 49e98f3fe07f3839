package strokemesh

// sideSavePointState is the saved per-side state captured by SetSavePoint,
// restored verbatim by RevertToSavePoint.
type sideSavePointState struct {
	nIndices                       uint32
	nIntersectionDiscontinuities   uint32
	savedIndices                   []uint32
	savedIntersectionDiscontinuities []IndexOffsetRange

	partitionStart             MeshPartitionStart
	firstSimplifiableIndexOffset uint32
	vertexBuffer                []Vertex
	nextBufferedVertexOffset    uint32
	intersection                *SelfIntersection
	lastSimplifiedVertexPositions []Point
}

// geometrySavePointState is the full snapshot taken by Geometry.SetSavePoint.
// Only one is ever active at a time; setting a new one while another is
// active simply discards the old one, matching the "one level of undo"
// contract used by interactive stroke prediction.
type geometrySavePointState struct {
	containsAllGeometrySinceLastBreak bool

	nMeshVertices  uint32
	nMeshTriangles uint32

	savedVertexSideIDs []SideID
	savedSideOffsets   []uint32

	savedVertices             map[uint32]Vertex
	savedTriangleIndices      map[uint32][3]uint32
	savedOppositeSideOffsets  map[uint32]uint32

	savedLastExtrusionBreak lastExtrusionBreakMetadata

	left, right sideSavePointState
}

func captureSideSavePoint(side *Side) sideSavePointState {
	return sideSavePointState{
		nIndices:                     uint32(len(side.Indices)),
		nIntersectionDiscontinuities: uint32(len(side.IntersectionDiscontinuities)),
		partitionStart:               side.PartitionStart,
		firstSimplifiableIndexOffset: side.FirstSimplifiableIndexOffset,
		vertexBuffer:                 append([]Vertex(nil), side.VertexBuffer...),
		nextBufferedVertexOffset:     side.NextBufferedVertexOffset,
		intersection:                 copySelfIntersection(side.Intersection),
		lastSimplifiedVertexPositions: append([]Point(nil), side.LastSimplifiedVertexPositions...),
	}
}

func copySelfIntersection(si *SelfIntersection) *SelfIntersection {
	if si == nil {
		return nil
	}
	cp := *si
	cp.UndoTriangulationStack = append([]UndoTriangleEntry(nil), si.UndoTriangulationStack...)
	return &cp
}

// SetSavePoint marks the current state so that subsequent extrusions can be
// undone by RevertToSavePoint. Does not affect texture coord type,
// intersection handling mode, or anything outside the mesh/side state.
func (g *Geometry) SetSavePoint() {
	g.savePoint = &geometrySavePointState{
		nMeshVertices:           g.mesh.VertexCount(),
		nMeshTriangles:          g.mesh.TriangleCount(),
		savedVertexSideIDs:      append([]SideID(nil), g.vertexSideIDs...),
		savedSideOffsets:        append([]uint32(nil), g.sideOffsets...),
		savedVertices:           make(map[uint32]Vertex),
		savedTriangleIndices:    make(map[uint32][3]uint32),
		savedOppositeSideOffsets: make(map[uint32]uint32),
		savedLastExtrusionBreak: g.lastBreak,
		left:                    captureSideSavePoint(g.leftSide),
		right:                   captureSideSavePoint(g.rightSide),
	}
}

// noteVertex records the pre-mutation value of a vertex that existed before
// the active save point, the first time it is modified (first-write-wins).
func (sp *geometrySavePointState) noteVertex(index uint32, old Vertex) {
	if index >= sp.nMeshVertices {
		return
	}
	if _, ok := sp.savedVertices[index]; ok {
		return
	}
	sp.savedVertices[index] = old
}

func (sp *geometrySavePointState) noteTriangle(t uint32, old [3]uint32) {
	if t >= sp.nMeshTriangles {
		return
	}
	if _, ok := sp.savedTriangleIndices[t]; ok {
		return
	}
	sp.savedTriangleIndices[t] = old
}

func (sp *geometrySavePointState) noteOppositeSideOffset(index uint32, old uint32) {
	if index >= sp.nMeshVertices {
		return
	}
	if _, ok := sp.savedOppositeSideOffsets[index]; ok {
		return
	}
	sp.savedOppositeSideOffsets[index] = old
}

func restoreSideFromSavePoint(side *Side, saved sideSavePointState) {
	if uint32(len(side.Indices)) > saved.nIndices {
		side.Indices = side.Indices[:saved.nIndices]
	}
	side.Indices = append(side.Indices, saved.savedIndices...)

	if uint32(len(side.IntersectionDiscontinuities)) > saved.nIntersectionDiscontinuities {
		side.IntersectionDiscontinuities = side.IntersectionDiscontinuities[:saved.nIntersectionDiscontinuities]
	}
	side.IntersectionDiscontinuities = append(side.IntersectionDiscontinuities, saved.savedIntersectionDiscontinuities...)

	side.PartitionStart = saved.partitionStart
	side.FirstSimplifiableIndexOffset = saved.firstSimplifiableIndexOffset
	side.VertexBuffer = append([]Vertex(nil), saved.vertexBuffer...)
	side.NextBufferedVertexOffset = saved.nextBufferedVertexOffset
	side.Intersection = copySelfIntersection(saved.intersection)
	side.LastSimplifiedVertexPositions = append([]Point(nil), saved.lastSimplifiedVertexPositions...)
}

// RevertToSavePoint reverts the geometry to the last save point and clears
// it. A no-op if SetSavePoint was never called, or was last called before
// the last RevertToSavePoint.
func (g *Geometry) RevertToSavePoint() {
	sp := g.savePoint
	if sp == nil {
		return
	}
	g.savePoint = nil

	g.mesh.TruncateVertices(sp.nMeshVertices)
	g.mesh.TruncateTriangles(sp.nMeshTriangles)

	// A ClearSinceLastExtrusionBreak that ran since this save point was set
	// may have truncated the mesh below sp.nMeshVertices/nMeshTriangles
	// already (see captureSinceBreakIntoSavePoint): grow on the mesh's
	// actual current size, not the save point's recorded one.
	for index, v := range sp.savedVertices {
		for g.mesh.VertexCount() <= index {
			g.mesh.AppendVertex(Vertex{})
		}
		g.mesh.SetVertex(index, v)
	}
	for t, idx := range sp.savedTriangleIndices {
		for g.mesh.TriangleCount() <= t {
			g.mesh.AppendTriangleIndices([3]uint32{0, 0, 0})
		}
		g.mesh.SetTriangleIndices(t, idx)
	}

	if uint32(len(g.vertexSideIDs)) > sp.nMeshVertices {
		g.vertexSideIDs = g.vertexSideIDs[:sp.nMeshVertices]
		g.sideOffsets = g.sideOffsets[:sp.nMeshVertices]
		g.oppositeSideOffsets = g.oppositeSideOffsets[:sp.nMeshVertices]
	}
	g.vertexSideIDs = append(g.vertexSideIDs, sp.savedVertexSideIDs[len(g.vertexSideIDs):]...)
	g.sideOffsets = append(g.sideOffsets, sp.savedSideOffsets[len(g.sideOffsets):]...)
	for uint32(len(g.oppositeSideOffsets)) < g.mesh.VertexCount() {
		g.oppositeSideOffsets = append(g.oppositeSideOffsets, 0)
	}
	for index, off := range sp.savedOppositeSideOffsets {
		for uint32(len(g.oppositeSideOffsets)) <= index {
			g.oppositeSideOffsets = append(g.oppositeSideOffsets, 0)
		}
		g.oppositeSideOffsets[index] = off
	}

	restoreSideFromSavePoint(g.leftSide, sp.left)
	restoreSideFromSavePoint(g.rightSide, sp.right)

	// Vertices restored from beyond the truncation point (saved by
	// ClearSinceLastExtrusionBreak before deletion) have no recorded side id
	// or offset; recover both from the restored side index lists.
	for uint32(len(g.vertexSideIDs)) < g.mesh.VertexCount() {
		g.vertexSideIDs = append(g.vertexSideIDs, SideLeft)
		g.sideOffsets = append(g.sideOffsets, 0)
	}
	for offset, idx := range g.leftSide.Indices {
		if idx < uint32(len(g.vertexSideIDs)) {
			g.vertexSideIDs[idx] = SideLeft
			g.sideOffsets[idx] = uint32(offset)
		}
	}
	for offset, idx := range g.rightSide.Indices {
		if idx < uint32(len(g.vertexSideIDs)) {
			g.vertexSideIDs[idx] = SideRight
			g.sideOffsets[idx] = uint32(offset)
		}
	}

	g.lastBreak = sp.savedLastExtrusionBreak
	g.envelopeOfRemovedGeometry = NewEmptyEnvelope()
}

// ClearSinceLastExtrusionBreak deletes all geometry added since the most
// recent AddExtrusionBreak call. If a save point is active and has not yet
// captured the post-break geometry, the current (about to be deleted)
// geometry is copied into it first so a later RevertToSavePoint can still
// recover it.
func (g *Geometry) ClearSinceLastExtrusionBreak() {
	if g.savePoint != nil && !g.savePoint.containsAllGeometrySinceLastBreak {
		g.captureSinceBreakIntoSavePoint()
		g.savePoint.containsAllGeometrySinceLastBreak = true
	}

	g.mesh.TruncateVertices(g.lastBreak.VertexCount)
	g.mesh.TruncateTriangles(g.lastBreak.TriangleCount)
	if uint32(len(g.vertexSideIDs)) > g.lastBreak.VertexCount {
		g.vertexSideIDs = g.vertexSideIDs[:g.lastBreak.VertexCount]
		g.sideOffsets = g.sideOffsets[:g.lastBreak.VertexCount]
		g.oppositeSideOffsets = g.oppositeSideOffsets[:g.lastBreak.VertexCount]
	}

	truncateSideToBreak := func(side *Side, info, oppInfo sideBreakInfo) {
		if uint32(len(side.Indices)) > info.IndexCount {
			side.Indices = side.Indices[:info.IndexCount]
		}
		if uint32(len(side.IntersectionDiscontinuities)) > info.IntersectionDiscontinuityCount {
			side.IntersectionDiscontinuities = side.IntersectionDiscontinuities[:info.IntersectionDiscontinuityCount]
		}
		side.VertexBuffer = side.VertexBuffer[:0]
		side.NextBufferedVertexOffset = 0
		side.Intersection = nil
		side.PartitionStart = MeshPartitionStart{
			AdjacentFirstIndexOffset: info.IndexCount,
			OppositeFirstIndexOffset: oppInfo.IndexCount,
			FirstTriangle:            g.lastBreak.TriangleCount,
			OutlineConnectsSides:     true,
			IsForwardExterior:        true,
		}
	}
	truncateSideToBreak(g.leftSide, g.lastBreak.LeftSideInfo, g.lastBreak.RightSideInfo)
	truncateSideToBreak(g.rightSide, g.lastBreak.RightSideInfo, g.lastBreak.LeftSideInfo)
	g.envelopeOfRemovedGeometry = NewEmptyEnvelope()
}

// captureSinceBreakIntoSavePoint copies geometry added since the last break
// into the active save point's "beyond truncation" storage, so a future
// revert restores it even though ClearSinceLastExtrusionBreak is about to
// delete it outright.
func (g *Geometry) captureSinceBreakIntoSavePoint() {
	sp := g.savePoint
	for v := g.lastBreak.VertexCount; v < sp.nMeshVertices; v++ {
		if _, ok := sp.savedVertices[v]; !ok {
			sp.savedVertices[v] = g.mesh.GetVertex(v)
		}
	}
	for t := g.lastBreak.TriangleCount; t < sp.nMeshTriangles; t++ {
		if _, ok := sp.savedTriangleIndices[t]; !ok {
			sp.savedTriangleIndices[t] = g.mesh.GetTriangleIndices(t)
		}
	}

	// Only the gap between the break and this save point needs preserving:
	// anything added after the save point is exactly what RevertToSavePoint
	// is supposed to discard, so the capture must stop at saved.nIndices
	// even though side.Indices may since have grown further.
	captureSideExtra := func(side *Side, saved *sideSavePointState, info sideBreakInfo) {
		if end := saved.nIndices; end > info.IndexCount {
			if uint32(len(side.Indices)) < end {
				end = uint32(len(side.Indices))
			}
			saved.savedIndices = append([]uint32(nil), side.Indices[info.IndexCount:end]...)
		}
		if end := saved.nIntersectionDiscontinuities; end > info.IntersectionDiscontinuityCount {
			if uint32(len(side.IntersectionDiscontinuities)) < end {
				end = uint32(len(side.IntersectionDiscontinuities))
			}
			saved.savedIntersectionDiscontinuities = append([]IndexOffsetRange(nil), side.IntersectionDiscontinuities[info.IntersectionDiscontinuityCount:end]...)
		}
	}
	captureSideExtra(g.leftSide, &sp.left, g.lastBreak.LeftSideInfo)
	captureSideExtra(g.rightSide, &sp.right, g.lastBreak.RightSideInfo)
}
