package strokemesh

// SideID identifies the left or right outline of the stroke, as seen on
// screen looking along the direction of travel.
type SideID int

const (
	SideLeft SideID = iota
	SideRight
)

// IndexOffsetRange is a closed interval of offsets into a Side's Indices.
type IndexOffsetRange struct {
	First, Last uint32
}

// UndoTriangleEntry records a triangle's pre-retriangulation indices so it
// can be restored if the intersection that modified it is undone.
type UndoTriangleEntry struct {
	Triangle uint32
	Indices  [3]uint32
}

// SelfIntersection tracks an in-progress self-intersection repair on one
// side of the stroke. See spec §3/§4.5.
type SelfIntersection struct {
	StartingPosition           Point
	LastProposedVertex         Vertex
	LastProposedVertexTriangle uint32
	StartingOffset             uint32
	RetriangulationStarted     bool
	// PivotIndex is the mesh vertex index of the single shared apex of the
	// intersection's triangle fan once retriangulation has begun.
	PivotIndex                      uint32
	UndoStackStartingTriangle       uint32
	OldestRetriangulationTriangle   uint32
	UndoTriangulationStack          []UndoTriangleEntry
	OutlineRepositionBudget         float64
	InitialOutlineRepositionBudget  float64
	TravelLimitFromStartingPosition float64
}

// MeshPartitionStart records where the current logical partition begins on
// both sides, for outline construction and intersection handling.
type MeshPartitionStart struct {
	AdjacentFirstIndexOffset    uint32
	OppositeFirstIndexOffset    uint32
	FirstTriangle               uint32
	OppositeSideInitialPosition *Point
	NonCCWConnectionIndex       *uint32
	OutlineConnectsSides        bool
	IsForwardExterior           bool
}

// Side holds the per-side state of the extruder: committed indices,
// discontinuity ranges left behind by abandoned intersections, the current
// partition, the buffered candidate vertices awaiting triangulation, and any
// in-progress self-intersection.
type Side struct {
	SelfID               SideID
	FirstTriangleVertex  int // 0 for left, 1 for right; see geometry.go triangleIndicesAreLeftRightConforming
	Indices              []uint32
	IntersectionDiscontinuities []IndexOffsetRange

	PartitionStart MeshPartitionStart

	FirstSimplifiableIndexOffset uint32

	VertexBuffer            []Vertex
	NextBufferedVertexOffset uint32

	Intersection *SelfIntersection

	LastSimplifiedVertexPositions []Point
}

func newSide(id SideID) *Side {
	s := &Side{SelfID: id}
	if id == SideLeft {
		s.FirstTriangleVertex = 0
	} else {
		s.FirstTriangleVertex = 1
	}
	s.PartitionStart.OutlineConnectsSides = true
	s.PartitionStart.IsForwardExterior = true
	return s
}

// reset clears all per-side state for a new stroke.
func (s *Side) reset() {
	id, ftv := s.SelfID, s.FirstTriangleVertex
	*s = Side{SelfID: id, FirstTriangleVertex: ftv}
	s.PartitionStart.OutlineConnectsSides = true
	s.PartitionStart.IsForwardExterior = true
}

// lastOutlineIndexOffset returns the offset of the last index on this side
// still considered part of the stroke's outline: the intersection's starting
// offset if one is active (triangulation beyond it is in flux), else the
// last committed index.
func lastOutlineIndexOffset(s *Side) uint32 {
	if s.Intersection != nil {
		return s.Intersection.StartingOffset
	}
	if len(s.Indices) == 0 {
		return 0
	}
	return uint32(len(s.Indices)) - 1
}
