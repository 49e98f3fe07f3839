package strokemesh

import "math"

// TextureCoordType selects how surface UVs are assigned to triangle-fan
// pivots created during intersection repair: tiling brushes repeat a
// pattern along the stroke, while winding brushes want every fan pivot to
// carry the sentinel (0,-1) UV so the shader can recognize and special-case
// it. Geometry records the selected type but does not assign the sentinel:
// in either mode a fan pivot carries the UV of the vertex it was made from.
type TextureCoordType int

const (
	TextureCoordTiling TextureCoordType = iota
	TextureCoordWinding
)

// IntersectionHandling selects whether the engine repairs self-intersections
// or lets clockwise-winding triangles accumulate (used for strokes known in
// advance never to turn back on themselves, trading correctness for speed).
type IntersectionHandling int

const (
	IntersectionHandlingEnabled IntersectionHandling = iota
	IntersectionHandlingDisabled
)

// IndexCounts reports a pair of per-side counts, e.g. at an extrusion break.
type IndexCounts struct {
	Left, Right uint32
}

type sideBreakInfo struct {
	IndexCount                 uint32
	IntersectionDiscontinuityCount uint32
}

type lastExtrusionBreakMetadata struct {
	BreakCount     uint32
	VertexCount    uint32
	TriangleCount  uint32
	LeftSideInfo   sideBreakInfo
	RightSideInfo  sideBreakInfo
}

type triangleWinding int

const (
	windingCCW triangleWinding = iota
	windingCW
	windingDegenerate
)

func windingOfArea(area float64) triangleWinding {
	switch {
	case area > 0:
		return windingCCW
	case area < 0:
		return windingCW
	default:
		return windingDegenerate
	}
}

// Geometry is the main state machine of the extruder: it owns a mesh view
// and the left/right Side trackers, and incrementally triangulates buffered
// candidate vertices as they arrive, repairing self-intersections as the
// stroke loops back on itself.
//
// Not safe for concurrent use; every method must be called from a single
// goroutine, synchronously, with no overlapping calls.
type Geometry struct {
	handleSelfIntersections bool
	textureCoordType        TextureCoordType

	mesh *MeshView

	vertexSideIDs       []SideID
	sideOffsets         []uint32
	oppositeSideOffsets []uint32

	leftSide  *Side
	rightSide *Side

	lastBreak lastExtrusionBreakMetadata

	savePoint *geometrySavePointState

	envelopeOfRemovedGeometry Envelope

	firstMutatedLeftIndex  *uint32
	firstMutatedRightIndex *uint32

	firstMutatedLeftOffsetInPartition  uint32
	firstMutatedRightOffsetInPartition uint32
}

// NewGeometry constructs a Geometry writing into mesh, which must already be
// empty: construction calls Reset, which starts a new stroke and does not
// clear the mesh.
func NewGeometry(mesh *MeshView) *Geometry {
	g := &Geometry{handleSelfIntersections: true}
	g.Reset(mesh)
	return g
}

// Reset discards all accumulated state and begins a new stroke writing into
// mesh.
func (g *Geometry) Reset(mesh *MeshView) {
	g.mesh = mesh
	g.vertexSideIDs = g.vertexSideIDs[:0]
	g.sideOffsets = g.sideOffsets[:0]
	g.oppositeSideOffsets = g.oppositeSideOffsets[:0]
	g.leftSide = newSide(SideLeft)
	g.rightSide = newSide(SideRight)
	g.lastBreak = lastExtrusionBreakMetadata{}
	g.savePoint = nil
	g.envelopeOfRemovedGeometry = NewEmptyEnvelope()
	g.firstMutatedLeftIndex = nil
	g.firstMutatedRightIndex = nil
	g.firstMutatedLeftOffsetInPartition = 0
	g.firstMutatedRightOffsetInPartition = 0
}

// SetTextureCoordType records tiling or winding mode. The recorded mode does
// not change how pivot UVs are assigned (see TextureCoordType).
func (g *Geometry) SetTextureCoordType(t TextureCoordType) { g.textureCoordType = t }

// SetIntersectionHandling enables or disables self-intersection repair.
func (g *Geometry) SetIntersectionHandling(h IntersectionHandling) {
	g.handleSelfIntersections = h == IntersectionHandlingEnabled
}

// GetMeshView returns the mesh view this Geometry writes into.
func (g *Geometry) GetMeshView() *MeshView { return g.mesh }

// LeftSide and RightSide expose the per-side extrusion state, mostly for
// testing and introspection.
func (g *Geometry) LeftSide() *Side  { return g.leftSide }
func (g *Geometry) RightSide() *Side { return g.rightSide }

// FirstMutatedLeftIndexOffsetInCurrentPartition and
// FirstMutatedRightIndexOffsetInCurrentPartition return the offset into the
// corresponding side's Indices of the first index modified since the last
// ResetMutationTracking (or Reset), for incremental re-derivation.
func (g *Geometry) FirstMutatedLeftIndexOffsetInCurrentPartition() uint32 {
	return g.firstMutatedLeftOffsetInPartition
}
func (g *Geometry) FirstMutatedRightIndexOffsetInCurrentPartition() uint32 {
	return g.firstMutatedRightOffsetInPartition
}

// ResetMutationTracking marks all current geometry as unmutated, including
// the underlying mesh view's own tracking.
func (g *Geometry) ResetMutationTracking() {
	g.mesh.ResetMutationTracking()
	g.firstMutatedLeftIndex = nil
	g.firstMutatedRightIndex = nil
	g.firstMutatedLeftOffsetInPartition = uint32(len(g.leftSide.Indices))
	g.firstMutatedRightOffsetInPartition = uint32(len(g.rightSide.Indices))
	g.envelopeOfRemovedGeometry = NewEmptyEnvelope()
}

// CalculateVisuallyUpdatedRegion returns the bounding rectangle of geometry
// that has visually changed since construction or the last
// ResetMutationTracking, including the positions of anything removed.
func (g *Geometry) CalculateVisuallyUpdatedRegion() Envelope {
	env := g.envelopeOfRemovedGeometry
	firstTriangle := g.firstVisuallyMutatedTriangle()
	for t := firstTriangle; t < g.mesh.TriangleCount(); t++ {
		idx := g.mesh.GetTriangleIndices(t)
		env = env.Add(g.mesh.GetPosition(idx[0]))
		env = env.Add(g.mesh.GetPosition(idx[1]))
		env = env.Add(g.mesh.GetPosition(idx[2]))
	}
	for v := g.mesh.FirstMutatedVertex(); v < g.mesh.VertexCount(); v++ {
		env = env.Add(g.mesh.GetPosition(v))
	}
	return env
}

func (g *Geometry) firstVisuallyMutatedTriangle() uint32 {
	t := g.mesh.FirstMutatedTriangle()
	if g.firstMutatedLeftIndex != nil {
		if ot, ok := g.earliestTriangleContainingIndex(*g.firstMutatedLeftIndex); ok && ot < t {
			t = ot
		}
	}
	if g.firstMutatedRightIndex != nil {
		if ot, ok := g.earliestTriangleContainingIndex(*g.firstMutatedRightIndex); ok && ot < t {
			t = ot
		}
	}
	return t
}

func (g *Geometry) earliestTriangleContainingIndex(index uint32) (uint32, bool) {
	for t := uint32(0); t < g.mesh.TriangleCount(); t++ {
		idx := g.mesh.GetTriangleIndices(t)
		if idx[0] == index || idx[1] == index || idx[2] == index {
			return t, true
		}
	}
	return 0, false
}

// NStableTriangles returns the number of triangles guaranteed not to change
// with further extension: only nonzero when intersection handling is
// disabled, in which case it's the triangle count minus the last two
// (which a future simplification could still rewrite).
func (g *Geometry) NStableTriangles() uint32 {
	if g.handleSelfIntersections {
		return 0
	}
	n := g.mesh.TriangleCount()
	if n < 2 {
		return 0
	}
	return n - 2
}

// AppendLeftVertex and AppendRightVertex buffer a new candidate outline
// vertex on the corresponding side. The vertex does not become part of the
// mesh until ProcessNewVertices is called.
func (g *Geometry) AppendLeftVertex(position Point, opacityShift float64, hslShift [3]float64, surfaceUV Point, animationOffset float64) {
	g.leftSide.VertexBuffer = append(g.leftSide.VertexBuffer, Vertex{
		Position: position,
		NonPositionAttributes: NonPositionAttributes{
			OpacityShift:    opacityShift,
			HSLShift:        hslShift,
			SurfaceUV:       surfaceUV,
			AnimationOffset: animationOffset,
		},
	})
}

func (g *Geometry) AppendRightVertex(position Point, opacityShift float64, hslShift [3]float64, surfaceUV Point, animationOffset float64) {
	g.rightSide.VertexBuffer = append(g.rightSide.VertexBuffer, Vertex{
		Position: position,
		NonPositionAttributes: NonPositionAttributes{
			OpacityShift:    opacityShift,
			HSLShift:        hslShift,
			SurfaceUV:       surfaceUV,
			AnimationOffset: animationOffset,
		},
	})
}

// ProcessNewVertices simplifies each side's buffered vertices against
// simplificationThreshold, then triangulates whatever remains, using the
// travel budgets derived from lastTipState's average dimension. It is a
// no-op unless both sides have buffered vertices.
func (g *Geometry) ProcessNewVertices(simplificationThreshold float64, lastTipState TipState) {
	if len(g.leftSide.VertexBuffer) == 0 || len(g.rightSide.VertexBuffer) == 0 {
		return
	}
	budgets := BudgetsForAverageDimension(lastTipState.AverageDimension())
	g.simplifyBufferedVertices(g.leftSide, budgets, simplificationThreshold)
	g.simplifyBufferedVertices(g.rightSide, budgets, simplificationThreshold)

	leftCountBefore := uint32(len(g.leftSide.Indices))
	rightCountBefore := uint32(len(g.rightSide.Indices))
	g.triangulateBufferedVertices(budgets)

	// If triangulation appended anything new, any earlier simplification's
	// recorded positions are no longer the side's trailing run and can't
	// constrain a future one.
	if uint32(len(g.leftSide.Indices)) != leftCountBefore {
		g.leftSide.LastSimplifiedVertexPositions = g.leftSide.LastSimplifiedVertexPositions[:0]
	}
	if uint32(len(g.rightSide.Indices)) != rightCountBefore {
		g.rightSide.LastSimplifiedVertexPositions = g.rightSide.LastSimplifiedVertexPositions[:0]
	}
}

func (g *Geometry) opposingSide(side *Side) *Side {
	if side.SelfID == SideLeft {
		return g.rightSide
	}
	return g.leftSide
}

func (g *Geometry) lastPosition(side *Side) Point {
	if len(side.Indices) == 0 {
		return Point{}
	}
	return g.mesh.GetPosition(side.Indices[len(side.Indices)-1])
}

func (g *Geometry) proposedTriangleWindingAt(proposed Point) triangleWinding {
	tri := Triangle{P0: g.lastPosition(g.leftSide), P1: g.lastPosition(g.rightSide), P2: proposed}
	return windingOfArea(tri.SignedArea())
}

func (g *Geometry) triangleIndicesAreLeftRightConforming(idx [3]uint32) bool {
	return g.vertexSideIDs[idx[0]] == SideLeft && g.vertexSideIDs[idx[1]] == SideRight
}

func (g *Geometry) growPerVertexArrays(upTo uint32, side SideID) {
	for uint32(len(g.vertexSideIDs)) <= upTo {
		g.vertexSideIDs = append(g.vertexSideIDs, side)
		g.sideOffsets = append(g.sideOffsets, 0)
		g.oppositeSideOffsets = append(g.oppositeSideOffsets, 0)
	}
}

// appendVertexToMesh appends v as a new mesh vertex belonging to side,
// recording its side offset (the length of side.Indices before the append)
// and threading it onto side.Indices.
func (g *Geometry) appendVertexToMesh(side *Side, v Vertex) uint32 {
	index := g.mesh.AppendVertex(v)
	g.growPerVertexArrays(index, side.SelfID)
	g.vertexSideIDs[index] = side.SelfID
	g.sideOffsets[index] = uint32(len(side.Indices))
	opp := g.opposingSide(side)
	g.oppositeSideOffsets[index] = uint32(len(opp.Indices))
	side.Indices = append(side.Indices, index)
	return index
}

func (g *Geometry) appendVertexToSide(side *Side, v Vertex) uint32 {
	if len(side.Indices) == 0 {
		side.PartitionStart.FirstTriangle = g.mesh.TriangleCount()
		v.ForwardLabel = ExteriorFrontLabel
	}
	return g.appendVertexToMesh(side, v)
}

// setVertex overwrites an existing mesh vertex, recording pre-mutation state
// for an active save point and the removed-geometry envelope, and updating
// mutation tracking for the owning side.
func (g *Geometry) setVertex(index uint32, v Vertex, updateSaveState, updateRemovedEnvelope bool) {
	if updateSaveState && g.savePoint != nil {
		g.savePoint.noteVertex(index, g.mesh.GetVertex(index))
	}
	if updateRemovedEnvelope {
		g.envelopeOfRemovedGeometry = g.envelopeOfRemovedGeometry.Add(g.mesh.GetPosition(index))
	}
	g.mesh.SetVertex(index, v)
	g.touchMutatedIndex(index)
}

func (g *Geometry) touchMutatedIndex(index uint32) {
	side := g.vertexSideIDs[index]
	offset := g.sideOffsets[index]
	if side == SideLeft {
		if g.firstMutatedLeftIndex == nil || index < *g.firstMutatedLeftIndex {
			i := index
			g.firstMutatedLeftIndex = &i
		}
		if offset < g.firstMutatedLeftOffsetInPartition {
			g.firstMutatedLeftOffsetInPartition = offset
		}
	} else {
		if g.firstMutatedRightIndex == nil || index < *g.firstMutatedRightIndex {
			i := index
			g.firstMutatedRightIndex = &i
		}
		if offset < g.firstMutatedRightOffsetInPartition {
			g.firstMutatedRightOffsetInPartition = offset
		}
	}
}

func (g *Geometry) setTriangleIndices(t uint32, idx [3]uint32, updateSaveState bool) {
	if updateSaveState && g.savePoint != nil {
		g.savePoint.noteTriangle(t, g.mesh.GetTriangleIndices(t))
	}
	g.mesh.SetTriangleIndices(t, idx)
}

// tryAppendVertexAndTriangleToMesh commits v to side and, if the left/right
// last positions and v form a non-degenerate triangle, appends that
// triangle too. Must only be called once the caller has verified the
// candidate triangle is not clockwise-winding.
func (g *Geometry) tryAppendVertexAndTriangleToMesh(side *Side, v Vertex) {
	if len(g.leftSide.Indices) == 0 || len(g.rightSide.Indices) == 0 {
		g.appendVertexToSide(side, v)
		return
	}
	leftLast := g.leftSide.Indices[len(g.leftSide.Indices)-1]
	rightLast := g.rightSide.Indices[len(g.rightSide.Indices)-1]
	winding := g.proposedTriangleWindingAt(v.Position)
	if winding == windingDegenerate {
		if v.Position != g.lastPosition(side) {
			g.appendVertexToSide(side, v)
		}
		return
	}
	idx := g.appendVertexToSide(side, v)
	g.mesh.AppendTriangleIndices([3]uint32{leftLast, rightLast, idx})
}

// simplifyBufferedVertices runs Ramer-Douglas-Peucker over side's buffer
// (which, beyond the first call of a stroke, starts with up to two already
// committed vertices reseeded by prepBufferedVerticesForNextExtrusion) and
// folds the result back in. It never touches NextBufferedVertexOffset:
// whatever the buffer's layout, offsets 0 and, when present, 1 always refer
// to already-committed vertices that triangulateBufferedVertices must not
// re-triangulate, and the cursor stays valid across a simplification pass.
func (g *Geometry) simplifyBufferedVertices(side *Side, budgets Budgets, threshold float64) {
	n := len(side.VertexBuffer)
	if threshold <= 0 || n < 3 {
		return
	}

	// The vertex at offset 1 is the side's last committed vertex, held back
	// purely as a simplification candidate (see §4.2). Skip considering it
	// for removal if that would open too large a gap, or would move an
	// earlier simplification's removed vertex too far from its replacement
	// segment.
	skipCandidate := false
	if side.NextBufferedVertexOffset == 2 {
		gap := Segment{side.VertexBuffer[0].Position, side.VertexBuffer[2].Position}
		if Distance(gap.Start, gap.End) > budgets.SimplificationTravelLimit {
			skipCandidate = true
		}
		if !skipCandidate {
			for _, p := range side.LastSimplifiedVertexPositions {
				if DistanceToPoint(gap, p) > threshold {
					skipCandidate = true
					break
				}
			}
		}
	}

	startOffset := 0
	if skipCandidate {
		startOffset = 1
	}
	considered := side.VertexBuffer[startOffset:]
	positions := make([]Point, len(considered))
	for i, v := range considered {
		positions[i] = v.Position
	}
	keepOffsets := SimplifyPolyline(positions, threshold)

	kept := make([]Vertex, 0, len(keepOffsets)+1)
	if skipCandidate {
		kept = append(kept, side.VertexBuffer[0])
	}
	for _, off := range keepOffsets {
		kept = append(kept, considered[off])
	}

	if len(kept) == n {
		// Nothing removed.
		return
	}

	lastVertexSimplified := side.NextBufferedVertexOffset == 2 &&
		kept[1].Position != g.lastPosition(side)
	shouldReplace := lastVertexSimplified &&
		g.proposedTriangleWindingAt(kept[1].Position) == windingCCW

	if shouldReplace {
		side.LastSimplifiedVertexPositions = append(side.LastSimplifiedVertexPositions, g.lastPosition(side))
		g.setVertex(side.Indices[len(side.Indices)-1], kept[1], true, true)
	}

	if lastVertexSimplified && !shouldReplace {
		// Simplification dropped the candidate but we can't safely apply
		// that: rebuild the buffer keeping the original two committed
		// vertices intact and only folding in the genuinely new tail.
		rebuilt := make([]Vertex, 0, len(kept)+1)
		rebuilt = append(rebuilt, side.VertexBuffer[0], side.VertexBuffer[1])
		rebuilt = append(rebuilt, kept[1:]...)
		side.VertexBuffer = rebuilt
		return
	}
	side.VertexBuffer = kept
}

func (g *Geometry) triangulateBufferedVertices(budgets Budgets) {
	for {
		leftHas := g.leftSide.NextBufferedVertexOffset < uint32(len(g.leftSide.VertexBuffer))
		rightHas := g.rightSide.NextBufferedVertexOffset < uint32(len(g.rightSide.VertexBuffer))
		if !leftHas && !rightHas {
			break
		}
		if leftHas {
			v := g.leftSide.VertexBuffer[g.leftSide.NextBufferedVertexOffset]
			g.leftSide.NextBufferedVertexOffset++
			g.tryAppend(g.leftSide, v, budgets)
		}
		if rightHas {
			v := g.rightSide.VertexBuffer[g.rightSide.NextBufferedVertexOffset]
			g.rightSide.NextBufferedVertexOffset++
			g.tryAppend(g.rightSide, v, budgets)
		}
	}
	g.prepBufferedVerticesForNextExtrusion(g.leftSide)
	g.prepBufferedVerticesForNextExtrusion(g.rightSide)
}

// prepBufferedVerticesForNextExtrusion clears side's buffer of whatever was
// just triangulated, then reseeds it with up to two of the side's most
// recently committed vertices so a future simplification pass can still
// reconsider and replace them (spec §3, §4.2).
func (g *Geometry) prepBufferedVerticesForNextExtrusion(side *Side) {
	side.VertexBuffer = side.VertexBuffer[:0]
	side.NextBufferedVertexOffset = 0
	n := len(side.Indices)
	if n == 0 {
		return
	}
	if n >= 2 &&
		uint32(n) > side.FirstSimplifiableIndexOffset &&
		side.Intersection == nil &&
		g.lastIndexBelongsToRecentTriangle(side) {
		second := g.mesh.GetVertex(side.Indices[n-2])
		side.VertexBuffer = append(side.VertexBuffer, second)
		side.NextBufferedVertexOffset++
	}
	last := g.mesh.GetVertex(side.Indices[n-1])
	side.VertexBuffer = append(side.VertexBuffer, last)
	side.NextBufferedVertexOffset++
}

// lastIndexBelongsToRecentTriangle reports whether side's last committed
// index is the "either" (third) vertex of one of the mesh's last two
// triangles, i.e. was committed by the most recent triangulation pass rather
// than long stable.
func (g *Geometry) lastIndexBelongsToRecentTriangle(side *Side) bool {
	n := g.mesh.TriangleCount()
	last := side.Indices[len(side.Indices)-1]
	if n > 0 && g.mesh.GetTriangleIndices(n-1)[2] == last {
		return true
	}
	if n > 1 && g.mesh.GetTriangleIndices(n-2)[2] == last {
		return true
	}
	return false
}

func (g *Geometry) tryAppend(newSide *Side, v Vertex, budgets Budgets) {
	opp := g.opposingSide(newSide)
	if len(g.leftSide.Indices) == 0 || len(g.rightSide.Indices) == 0 {
		g.appendVertexToSide(newSide, v)
		return
	}

	winding := g.proposedTriangleWindingAt(v.Position)
	adjacentIntersecting := g.handleSelfIntersections && newSide.Intersection != nil
	oppositeIntersecting := g.handleSelfIntersections && opp.Intersection != nil

	if winding != windingCW && !adjacentIntersecting && !oppositeIntersecting {
		g.tryAppendVertexAndTriangleToMesh(newSide, v)
		return
	}

	if !g.handleSelfIntersections {
		// Intersection repair disabled: accept the geometry as-is, even if it
		// would wind clockwise. The caller promised strokes never loop back.
		g.tryAppendVertexAndTriangleToMesh(newSide, v)
		return
	}

	g.tryAppendSlowPath(newSide, opp, v, winding, budgets)
}

func (g *Geometry) tryAppendSlowPath(newSide, opp *Side, v Vertex, winding triangleWinding, budgets Budgets) {
	if winding != windingCW {
		// The candidate itself is fine; an intersection on one of the two
		// sides is still open and needs to either finish or give up before we
		// can safely resume normal triangulation.
		if newSide.Intersection != nil {
			g.tryFinishIntersectionHandling(newSide, v, budgets)
		}
		if opp.Intersection != nil {
			g.tryFinishIntersectionHandling(opp, Vertex{Position: g.lastPosition(newSide)}, budgets)
		}
		g.tryAppendVertexAndTriangleToMesh(newSide, v)
		return
	}

	// winding == windingCW: committing this triangle as proposed would cross
	// the stroke over itself.
	if newSide.Intersection == nil {
		g.beginSelfIntersection(newSide, v, budgets)
		return
	}

	side := newSide
	seg := Segment{side.Intersection.LastProposedVertex.Position, v.Position}
	triIdx, found := g.findLastTriangleContainingSegmentEnd(side, seg, side.Intersection.UndoStackStartingTriangle)
	side.Intersection.LastProposedVertex = v
	if !found {
		g.tryFinishIntersectionHandling(side, v, budgets)
		return
	}
	side.Intersection.LastProposedVertexTriangle = triIdx

	if side.Intersection.RetriangulationStarted {
		g.continueIntersectionRetriangulation(side, v, triIdx)
		return
	}
	if clipTravelLimit(Distance(side.Intersection.StartingPosition, v.Position)) >= budgets.RetriangulationTravelThreshold {
		if !g.tryBeginIntersectionRetriangulation(side, v, triIdx) {
			g.giveUpIntersectionHandling(side)
			g.tryAppendVertexAndTriangleToMesh(side, v)
		}
	}
}

func (g *Geometry) beginSelfIntersection(side *Side, v Vertex, budgets Budgets) {
	seg := Segment{g.lastPosition(side), v.Position}
	triIdx, found := g.findLastTriangleContainingSegmentEnd(side, seg, side.PartitionStart.FirstTriangle)

	side.Intersection = &SelfIntersection{
		StartingPosition:               g.lastPosition(side),
		LastProposedVertex:              v,
		StartingOffset:                  uint32(len(side.Indices)) - 1,
		OutlineRepositionBudget:         budgets.OutlineRepositionBudget,
		InitialOutlineRepositionBudget:  budgets.OutlineRepositionBudget,
		TravelLimitFromStartingPosition: budgets.IntersectionTravelLimit,
	}

	if !found {
		// The turn is sharp enough that no existing triangle contains the
		// candidate. Conservatively hold the vertex back without committing a
		// triangle; a later call will either find a containing triangle as
		// the stroke continues, or finish/give up once the outline crosses
		// the newest edge.
		return
	}
	side.Intersection.LastProposedVertexTriangle = triIdx

	if clipTravelLimit(Distance(side.Intersection.StartingPosition, v.Position)) >= budgets.RetriangulationTravelThreshold {
		if !g.tryBeginIntersectionRetriangulation(side, v, triIdx) {
			g.giveUpIntersectionHandling(side)
			g.tryAppendVertexAndTriangleToMesh(side, v)
		}
	}
}

func (g *Geometry) findLastTriangleContainingSegmentEnd(searchAlongSide *Side, seg Segment, maxEarlyExitTriangle uint32) (uint32, bool) {
	count := g.mesh.TriangleCount()
	if count == 0 {
		return 0, false
	}
	firstTriangle := searchAlongSide.PartitionStart.FirstTriangle
	for t := count; t > firstTriangle; t-- {
		idx := t - 1
		tri := g.mesh.GetTriangle(idx)
		if tri.Contains(seg.End) {
			return idx, true
		}
		if idx <= maxEarlyExitTriangle {
			break
		}
	}
	return 0, false
}

// fanOffsetRange approximates the portion of a side's indices touched by an
// intersection's triangle fan as everything from the current partition's
// start to the last committed index. This is a conservative
// over-approximation of the true fan extent described for
// winding-correction purposes: it can only make makeWindingCorrectedIntersectionVertex
// more cautious (reject corrections it needn't), never less safe.
func (g *Geometry) fanOffsetRange(side *Side) IndexOffsetRange {
	if len(side.Indices) == 0 {
		return IndexOffsetRange{}
	}
	return IndexOffsetRange{First: side.PartitionStart.AdjacentFirstIndexOffset, Last: uint32(len(side.Indices)) - 1}
}

func (g *Geometry) makeWindingCorrectedIntersectionVertex(side *Side, candidate Vertex, triangleIdx uint32) (Vertex, bool) {
	opp := g.opposingSide(side)
	leftRange := g.fanOffsetRange(g.leftSide)
	rightRange := g.fanOffsetRange(g.rightSide)

	segLeft, okLeft := FindLastClockwiseWindingMultiTriangleFanSegment(g.mesh, g.leftSide, leftRange, candidate.Position)
	segRight, okRight := FindLastClockwiseWindingMultiTriangleFanSegment(g.mesh, g.rightSide, rightRange, candidate.Position)
	if !okLeft && !okRight {
		return candidate, true
	}

	q := g.lastPosition(opp)
	ray := Segment{candidate.Position, q}
	bestT := -1.0
	if okLeft {
		if t, _, ok := SegmentIntersection(ray, segLeft); ok && t > bestT {
			bestT = t
		}
	}
	if okRight {
		if t, _, ok := SegmentIntersection(ray, segRight); ok && t > bestT {
			bestT = t
		}
	}
	if bestT < 0 {
		return Vertex{}, false
	}
	t := bestT + 0.01
	if t <= 0 || t >= 1 {
		return Vertex{}, false
	}

	corrected := candidate
	corrected.Position = ray.Start.Lerp(ray.End, t)

	tri := g.mesh.GetTriangle(triangleIdx)
	if !tri.Contains(corrected.Position) {
		return Vertex{}, false
	}
	if _, stillCWLeft := FindLastClockwiseWindingMultiTriangleFanSegment(g.mesh, g.leftSide, leftRange, corrected.Position); stillCWLeft {
		return Vertex{}, false
	}
	if _, stillCWRight := FindLastClockwiseWindingMultiTriangleFanSegment(g.mesh, g.rightSide, rightRange, corrected.Position); stillCWRight {
		return Vertex{}, false
	}
	return corrected, true
}

func (g *Geometry) tryBeginIntersectionRetriangulation(side *Side, uncorrected Vertex, triangleIdx uint32) bool {
	corrected, ok := g.makeWindingCorrectedIntersectionVertex(side, uncorrected, triangleIdx)
	if !ok {
		return false
	}
	tri := g.mesh.GetTriangleIndices(triangleIdx)
	if !g.triangleIndicesAreLeftRightConforming(tri) {
		return false
	}

	pivotIdx := g.mesh.AppendVertex(corrected)
	g.growPerVertexArrays(pivotIdx, side.SelfID)

	for t := g.mesh.TriangleCount() - 1; ; t-- {
		orig := g.mesh.GetTriangleIndices(t)
		side.Intersection.UndoTriangulationStack = append(side.Intersection.UndoTriangulationStack, UndoTriangleEntry{Triangle: t, Indices: orig})
		if g.triangleIndicesAreLeftRightConforming(orig) {
			g.setTriangleIndices(t, [3]uint32{orig[0], orig[1], pivotIdx}, true)
		}
		if t == triangleIdx {
			break
		}
	}

	side.Intersection.PivotIndex = pivotIdx
	side.Intersection.RetriangulationStarted = true
	side.Intersection.OldestRetriangulationTriangle = triangleIdx
	side.Intersection.UndoStackStartingTriangle = triangleIdx
	return true
}

func (g *Geometry) continueIntersectionRetriangulation(side *Side, v Vertex, triangleIdx uint32) {
	g.setVertex(side.Intersection.PivotIndex, v, true, true)

	switch {
	case triangleIdx < side.Intersection.OldestRetriangulationTriangle:
		for t := triangleIdx; t < side.Intersection.OldestRetriangulationTriangle; t++ {
			orig := g.mesh.GetTriangleIndices(t)
			side.Intersection.UndoTriangulationStack = append(side.Intersection.UndoTriangulationStack, UndoTriangleEntry{Triangle: t, Indices: orig})
			if g.triangleIndicesAreLeftRightConforming(orig) {
				g.setTriangleIndices(t, [3]uint32{orig[0], orig[1], side.Intersection.PivotIndex}, true)
			}
		}
		side.Intersection.OldestRetriangulationTriangle = triangleIdx
	case triangleIdx > side.Intersection.OldestRetriangulationTriangle:
		g.undoIntersectionRetriangulation(side, &v.Position)
	}
}

func (g *Geometry) undoIntersectionRetriangulation(side *Side, stopAt *Point) {
	stack := side.Intersection.UndoTriangulationStack
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		if stopAt != nil {
			tri := g.mesh.GetTriangle(entry.Triangle)
			if tri.Contains(*stopAt) {
				break
			}
		}
		g.setTriangleIndices(entry.Triangle, entry.Indices, true)
		stack = stack[:len(stack)-1]
		if entry.Triangle < side.Intersection.OldestRetriangulationTriangle {
			side.Intersection.OldestRetriangulationTriangle = entry.Triangle
		}
	}
	side.Intersection.UndoTriangulationStack = stack
}

func (g *Geometry) tryFinishIntersectionHandling(side *Side, newVertex Vertex, budgets Budgets) {
	opp := g.opposingSide(side)
	outline := ConstructPartialOutline(side, opp)
	seg := Segment{side.Intersection.LastProposedVertex.Position, newVertex.Position}
	budget := side.Intersection.OutlineRepositionBudget
	if budget <= 0 {
		budget = budgets.OutlineRepositionBudget
	}
	result := FindOutlineIntersection(outline, seg, g.mesh, budget, nil)
	side.Intersection.OutlineRepositionBudget = result.RemainingSearchBudget
	if result.Intersection == nil {
		g.giveUpIntersectionHandling(side)
		return
	}

	hit := result.Intersection
	target := newVertex
	target.Position = hit.Position
	for i := uint32(0); i < hit.EndingIndex; i++ {
		idx := outline.At(i)
		g.setVertex(idx, target, true, true)
	}

	if side.Intersection.RetriangulationStarted {
		g.setVertex(side.Intersection.PivotIndex, target, true, true)
		g.undoIntersectionRetriangulation(side, nil)
	}
	side.Intersection = nil
}

func (g *Geometry) giveUpIntersectionHandling(side *Side) {
	if side.Intersection == nil {
		return
	}
	if !side.Intersection.RetriangulationStarted {
		side.Intersection = nil
		return
	}

	g.undoIntersectionRetriangulation(side, nil)

	disc := IndexOffsetRange{First: side.Intersection.StartingOffset, Last: uint32(len(side.Indices)) - 1}
	side.IntersectionDiscontinuities = append(side.IntersectionDiscontinuities, disc)
	side.Intersection = nil

	opp := g.opposingSide(side)
	side.PartitionStart = MeshPartitionStart{
		AdjacentFirstIndexOffset: uint32(len(side.Indices)),
		OppositeFirstIndexOffset: uint32(len(opp.Indices)),
		FirstTriangle:            g.mesh.TriangleCount(),
		OutlineConnectsSides:     true,
		IsForwardExterior:        false,
	}

	// Start the new connected partition with a duplicate of each side's last
	// committed vertex. The intersecting side's duplicate gets a zero margin
	// so shader anti-aliasing can't reopen the gap repair just closed.
	lastOnSide := g.mesh.GetVertex(side.Indices[len(side.Indices)-1])
	lastOnSide.SideLabel = lastOnSide.SideLabel.WithMargin(0)
	g.appendVertexToSide(side, lastOnSide)
	g.appendVertexToSide(opp, g.mesh.GetVertex(opp.Indices[len(opp.Indices)-1]))

	g.leftSide.FirstSimplifiableIndexOffset = uint32(len(g.leftSide.Indices))
	g.rightSide.FirstSimplifiableIndexOffset = uint32(len(g.rightSide.Indices))

	if opp.Intersection != nil {
		opp.Intersection.StartingOffset = uint32(len(opp.Indices))
	}
}

// AddExtrusionBreak starts a new logical partition of the stroke mesh that
// will be visibly disconnected from existing geometry: each side's buffered
// vertices are cleared, any ongoing self-intersection is abandoned, and a
// fresh partition start is recorded.
//
// If either side was mid-retriangulation when the break hit, the last
// vertices are left labeled interior rather than exterior-back: they're
// still part of an in-progress triangle fan, not a closed front edge.
func (g *Geometry) AddExtrusionBreak() {
	leftRetriangulating := g.leftSide.Intersection != nil && g.leftSide.Intersection.RetriangulationStarted
	rightRetriangulating := g.rightSide.Intersection != nil && g.rightSide.Intersection.RetriangulationStarted
	relabelAsExteriorBack := !leftRetriangulating && !rightRetriangulating

	for _, side := range [2]*Side{g.leftSide, g.rightSide} {
		hadNewIndices := side.PartitionStart.AdjacentFirstIndexOffset < uint32(len(side.Indices))
		lastIndex := uint32(0)
		if hadNewIndices {
			lastIndex = side.Indices[len(side.Indices)-1]
		}

		if side.Intersection != nil {
			g.giveUpIntersectionHandling(side)
		}
		side.VertexBuffer = side.VertexBuffer[:0]
		side.NextBufferedVertexOffset = 0
		opp := g.opposingSide(side)

		if relabelAsExteriorBack && hadNewIndices {
			last := g.mesh.GetVertex(lastIndex)
			last.ForwardLabel = ExteriorBackLabel
			g.setVertex(lastIndex, last, true, false)
		}

		side.PartitionStart = MeshPartitionStart{
			AdjacentFirstIndexOffset: uint32(len(side.Indices)),
			OppositeFirstIndexOffset: uint32(len(opp.Indices)),
			FirstTriangle:            g.mesh.TriangleCount(),
			OutlineConnectsSides:     true,
			IsForwardExterior:        true,
		}
		side.FirstSimplifiableIndexOffset = side.PartitionStart.AdjacentFirstIndexOffset
		side.LastSimplifiedVertexPositions = side.LastSimplifiedVertexPositions[:0]
	}
	g.lastBreak = lastExtrusionBreakMetadata{
		BreakCount:    g.lastBreak.BreakCount + 1,
		VertexCount:   g.mesh.VertexCount(),
		TriangleCount: g.mesh.TriangleCount(),
		LeftSideInfo: sideBreakInfo{
			IndexCount:                     uint32(len(g.leftSide.Indices)),
			IntersectionDiscontinuityCount: uint32(len(g.leftSide.IntersectionDiscontinuities)),
		},
		RightSideInfo: sideBreakInfo{
			IndexCount:                     uint32(len(g.rightSide.Indices)),
			IntersectionDiscontinuityCount: uint32(len(g.rightSide.IntersectionDiscontinuities)),
		},
	}
}

// ExtrusionBreakCount returns the number of breaks recorded so far.
func (g *Geometry) ExtrusionBreakCount() uint32 { return g.lastBreak.BreakCount }

// IndexCountsAtLastExtrusionBreak returns the left/right index counts as of
// the most recent AddExtrusionBreak call.
func (g *Geometry) IndexCountsAtLastExtrusionBreak() IndexCounts {
	return IndexCounts{Left: g.lastBreak.LeftSideInfo.IndexCount, Right: g.lastBreak.RightSideInfo.IndexCount}
}

// clipTravelLimit guards against NaN/Inf candidate positions reaching the
// budgets math, treating them as an immediately exhausted budget rather
// than propagating non-finite values through the triangulation.
func clipTravelLimit(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
