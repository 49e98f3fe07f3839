package strokemesh

import "testing"

func TestNewSideSetsIdentityAndDefaults(t *testing.T) {
	left := newSide(SideLeft)
	if left.SelfID != SideLeft || left.FirstTriangleVertex != 0 {
		t.Errorf("newSide(SideLeft) = %+v, want SelfID=SideLeft, FirstTriangleVertex=0", left)
	}
	if !left.PartitionStart.OutlineConnectsSides || !left.PartitionStart.IsForwardExterior {
		t.Errorf("newSide(SideLeft) partition defaults = %+v, want both true", left.PartitionStart)
	}

	right := newSide(SideRight)
	if right.SelfID != SideRight || right.FirstTriangleVertex != 1 {
		t.Errorf("newSide(SideRight) = %+v, want SelfID=SideRight, FirstTriangleVertex=1", right)
	}
}

func TestSideResetPreservesIdentity(t *testing.T) {
	s := newSide(SideRight)
	s.Indices = []uint32{1, 2, 3}
	s.VertexBuffer = []Vertex{{Position: Point{1, 1}}}
	s.Intersection = &SelfIntersection{StartingOffset: 5}

	s.reset()

	if s.SelfID != SideRight || s.FirstTriangleVertex != 1 {
		t.Errorf("reset changed identity: %+v", s)
	}
	if len(s.Indices) != 0 || len(s.VertexBuffer) != 0 || s.Intersection != nil {
		t.Errorf("reset did not clear per-stroke state: %+v", s)
	}
	if !s.PartitionStart.OutlineConnectsSides || !s.PartitionStart.IsForwardExterior {
		t.Errorf("reset partition defaults = %+v, want both true", s.PartitionStart)
	}
}

func TestLastOutlineIndexOffsetNoIntersection(t *testing.T) {
	s := newSide(SideLeft)
	if got := lastOutlineIndexOffset(s); got != 0 {
		t.Errorf("empty side lastOutlineIndexOffset = %d, want 0", got)
	}

	s.Indices = []uint32{10, 11, 12}
	if got := lastOutlineIndexOffset(s); got != 2 {
		t.Errorf("lastOutlineIndexOffset = %d, want 2 (last committed offset)", got)
	}
}

func TestLastOutlineIndexOffsetWithActiveIntersection(t *testing.T) {
	s := newSide(SideLeft)
	s.Indices = []uint32{10, 11, 12}
	s.Intersection = &SelfIntersection{StartingOffset: 1}

	if got := lastOutlineIndexOffset(s); got != 1 {
		t.Errorf("lastOutlineIndexOffset with active intersection = %d, want intersection's StartingOffset 1", got)
	}
}
