package strokemesh

import "testing"

func newTestView() (*MeshView, *[]Vertex, *[]uint32) {
	var verts []Vertex
	var indices []uint32
	return NewMeshView(&verts, &indices), &verts, &indices
}

func TestMeshViewAppendVertexAndTriangle(t *testing.T) {
	m, _, _ := newTestView()

	i0 := m.AppendVertex(Vertex{Position: Point{0, 0}})
	i1 := m.AppendVertex(Vertex{Position: Point{1, 0}})
	i2 := m.AppendVertex(Vertex{Position: Point{0, 1}})

	if m.VertexCount() != 3 {
		t.Fatalf("VertexCount = %d, want 3", m.VertexCount())
	}

	tri := m.AppendTriangleIndices([3]uint32{i0, i1, i2})
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount = %d, want 1", m.TriangleCount())
	}
	if got := m.GetTriangleIndices(tri); got != ([3]uint32{i0, i1, i2}) {
		t.Errorf("GetTriangleIndices = %v, want [%d %d %d]", got, i0, i1, i2)
	}

	geomTri := m.GetTriangle(tri)
	want := Triangle{P0: Point{0, 0}, P1: Point{1, 0}, P2: Point{0, 1}}
	if geomTri != want {
		t.Errorf("GetTriangle = %+v, want %+v", geomTri, want)
	}
}

func TestMeshViewSetVertexAndTriangleIndices(t *testing.T) {
	m, _, _ := newTestView()
	i0 := m.AppendVertex(Vertex{Position: Point{0, 0}})
	i1 := m.AppendVertex(Vertex{Position: Point{1, 0}})
	i2 := m.AppendVertex(Vertex{Position: Point{0, 1}})
	m.AppendTriangleIndices([3]uint32{i0, i1, i2})

	m.SetVertex(i0, Vertex{Position: Point{5, 5}})
	if got := m.GetPosition(i0); got != (Point{5, 5}) {
		t.Errorf("GetPosition after SetVertex = %v, want (5,5)", got)
	}

	m.SetTriangleIndices(0, [3]uint32{i2, i1, i0})
	if got := m.GetTriangleIndices(0); got != ([3]uint32{i2, i1, i0}) {
		t.Errorf("GetTriangleIndices after SetTriangleIndices = %v", got)
	}
}

func TestMeshViewInsertTriangleIndices(t *testing.T) {
	m, _, _ := newTestView()
	i0 := m.AppendVertex(Vertex{Position: Point{0, 0}})
	i1 := m.AppendVertex(Vertex{Position: Point{1, 0}})
	i2 := m.AppendVertex(Vertex{Position: Point{0, 1}})
	i3 := m.AppendVertex(Vertex{Position: Point{1, 1}})

	m.AppendTriangleIndices([3]uint32{i0, i1, i2})
	m.AppendTriangleIndices([3]uint32{i1, i3, i2})

	m.InsertTriangleIndices(1, [3]uint32{i0, i2, i3})

	if m.TriangleCount() != 3 {
		t.Fatalf("TriangleCount = %d, want 3", m.TriangleCount())
	}
	if got := m.GetTriangleIndices(0); got != ([3]uint32{i0, i1, i2}) {
		t.Errorf("triangle 0 = %v, want untouched first triangle", got)
	}
	if got := m.GetTriangleIndices(1); got != ([3]uint32{i0, i2, i3}) {
		t.Errorf("triangle 1 = %v, want inserted triangle", got)
	}
	if got := m.GetTriangleIndices(2); got != ([3]uint32{i1, i3, i2}) {
		t.Errorf("triangle 2 = %v, want shifted-back original second triangle", got)
	}
}

func TestMeshViewTruncate(t *testing.T) {
	m, _, _ := newTestView()
	for i := 0; i < 5; i++ {
		m.AppendVertex(Vertex{Position: Point{float64(i), 0}})
	}
	m.AppendTriangleIndices([3]uint32{0, 1, 2})
	m.AppendTriangleIndices([3]uint32{2, 3, 4})

	m.TruncateTriangles(1)
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount after truncate = %d, want 1", m.TriangleCount())
	}

	m.TruncateVertices(3)
	if m.VertexCount() != 3 {
		t.Fatalf("VertexCount after truncate = %d, want 3", m.VertexCount())
	}

	// Truncating to a count at or above the current count is a no-op.
	m.TruncateVertices(10)
	if m.VertexCount() != 3 {
		t.Errorf("TruncateVertices(10) changed count to %d, want unchanged 3", m.VertexCount())
	}
}

func TestMeshViewClear(t *testing.T) {
	m, _, _ := newTestView()
	m.AppendVertex(Vertex{Position: Point{0, 0}})
	m.AppendVertex(Vertex{Position: Point{1, 0}})
	m.AppendVertex(Vertex{Position: Point{0, 1}})
	m.AppendTriangleIndices([3]uint32{0, 1, 2})

	m.Clear()
	if m.VertexCount() != 0 || m.TriangleCount() != 0 {
		t.Fatalf("Clear left VertexCount=%d TriangleCount=%d, want 0, 0", m.VertexCount(), m.TriangleCount())
	}
	if m.FirstMutatedVertex() != 0 || m.FirstMutatedTriangle() != 0 {
		t.Errorf("mutation tracking after Clear = (%d, %d), want (0, 0)", m.FirstMutatedVertex(), m.FirstMutatedTriangle())
	}
}

func TestMeshViewMutationTrackingTracksLowestIndex(t *testing.T) {
	m, _, _ := newTestView()
	for i := 0; i < 4; i++ {
		m.AppendVertex(Vertex{Position: Point{float64(i), 0}})
	}
	m.AppendTriangleIndices([3]uint32{0, 1, 2})
	m.AppendTriangleIndices([3]uint32{1, 2, 3})
	m.ResetMutationTracking()

	if got := m.FirstMutatedVertex(); got != m.VertexCount() {
		t.Errorf("FirstMutatedVertex after reset = %d, want VertexCount %d (nothing mutated)", got, m.VertexCount())
	}

	m.SetVertex(2, Vertex{Position: Point{9, 9}})
	m.SetVertex(1, Vertex{Position: Point{8, 8}})
	if got := m.FirstMutatedVertex(); got != 1 {
		t.Errorf("FirstMutatedVertex = %d, want 1 (lowest touched)", got)
	}

	m.SetTriangleIndices(1, [3]uint32{3, 2, 1})
	m.SetTriangleIndices(0, [3]uint32{2, 1, 0})
	if got := m.FirstMutatedTriangle(); got != 0 {
		t.Errorf("FirstMutatedTriangle = %d, want 0 (lowest touched)", got)
	}
}

func TestMeshViewPanicsOnOutOfRangeAccess(t *testing.T) {
	m, _, _ := newTestView()
	m.AppendVertex(Vertex{Position: Point{0, 0}})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected GetVertex to panic on an out-of-range index")
		}
	}()
	m.GetVertex(5)
}
