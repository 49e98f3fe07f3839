package strokemesh

import "fmt"

// MeshView is a uniform read/write interface over a mesh's backing vertex
// and triangle-index arrays, owned by the caller. It tracks the first
// vertex and triangle mutated since construction or the last call to
// ResetMutationTracking, the way the teacher's Node tracks a dirty AABB
// (mesh.go's recomputeMeshAABB) rather than recomputing eagerly.
//
// Triangles are stored as flat uint32 index triples: triangle t occupies
// Indices[3*t], Indices[3*t+1], Indices[3*t+2].
type MeshView struct {
	vertices *[]Vertex
	indices  *[]uint32

	firstMutatedVertex   uint32
	firstMutatedTriangle uint32
}

// NewMeshView constructs a view over caller-owned backing slices. The
// slices must outlive the MeshView.
func NewMeshView(vertices *[]Vertex, indices *[]uint32) *MeshView {
	v := &MeshView{vertices: vertices, indices: indices}
	v.ResetMutationTracking()
	return v
}

func (m *MeshView) VertexCount() uint32 { return uint32(len(*m.vertices)) }
func (m *MeshView) TriangleCount() uint32 {
	return uint32(len(*m.indices)) / 3
}

func (m *MeshView) checkVertexIndex(i uint32) {
	if i >= m.VertexCount() {
		panic(fmt.Sprintf("strokemesh: vertex index %d out of range (count %d)", i, m.VertexCount()))
	}
}

func (m *MeshView) checkTriangleIndex(t uint32) {
	if t >= m.TriangleCount() {
		panic(fmt.Sprintf("strokemesh: triangle index %d out of range (count %d)", t, m.TriangleCount()))
	}
}

func (m *MeshView) touchVertex(i uint32) {
	if i < m.firstMutatedVertex {
		m.firstMutatedVertex = i
	}
}

func (m *MeshView) touchTriangle(t uint32) {
	if t < m.firstMutatedTriangle {
		m.firstMutatedTriangle = t
	}
}

// GetVertex returns the vertex at index i. Panics if i is out of range.
func (m *MeshView) GetVertex(i uint32) Vertex {
	m.checkVertexIndex(i)
	return (*m.vertices)[i]
}

// GetPosition returns the position of the vertex at index i.
func (m *MeshView) GetPosition(i uint32) Point { return m.GetVertex(i).Position }

// SetVertex overwrites the vertex at index i.
func (m *MeshView) SetVertex(i uint32, v Vertex) {
	m.checkVertexIndex(i)
	(*m.vertices)[i] = v
	m.touchVertex(i)
}

// AppendVertex appends a new vertex and returns its index.
func (m *MeshView) AppendVertex(v Vertex) uint32 {
	idx := uint32(len(*m.vertices))
	*m.vertices = append(*m.vertices, v)
	m.touchVertex(idx)
	return idx
}

func (m *MeshView) GetSideDerivative(i uint32) Vec    { return m.GetVertex(i).SideDerivative }
func (m *MeshView) GetForwardDerivative(i uint32) Vec { return m.GetVertex(i).ForwardDerivative }
func (m *MeshView) GetSideLabel(i uint32) Label       { return m.GetVertex(i).SideLabel }
func (m *MeshView) GetForwardLabel(i uint32) Label    { return m.GetVertex(i).ForwardLabel }

func (m *MeshView) SetSideDerivative(i uint32, d Vec) {
	m.checkVertexIndex(i)
	(*m.vertices)[i].SideDerivative = d
	m.touchVertex(i)
}

func (m *MeshView) SetForwardDerivative(i uint32, d Vec) {
	m.checkVertexIndex(i)
	(*m.vertices)[i].ForwardDerivative = d
	m.touchVertex(i)
}

func (m *MeshView) SetSideLabel(i uint32, l Label) {
	m.checkVertexIndex(i)
	(*m.vertices)[i].SideLabel = l
	m.touchVertex(i)
}

func (m *MeshView) SetForwardLabel(i uint32, l Label) {
	m.checkVertexIndex(i)
	(*m.vertices)[i].ForwardLabel = l
	m.touchVertex(i)
}

// GetTriangleIndices returns the three vertex indices of triangle t.
func (m *MeshView) GetTriangleIndices(t uint32) [3]uint32 {
	m.checkTriangleIndex(t)
	base := 3 * t
	return [3]uint32{(*m.indices)[base], (*m.indices)[base+1], (*m.indices)[base+2]}
}

// GetVertexIndex returns the vertexIdx'th (0, 1, or 2) index of triangle t.
func (m *MeshView) GetVertexIndex(t uint32, vertexIdx int) uint32 {
	m.checkTriangleIndex(t)
	return (*m.indices)[3*t+uint32(vertexIdx)]
}

// GetTriangle returns the geometric triangle formed by t's three vertices.
func (m *MeshView) GetTriangle(t uint32) Triangle {
	idx := m.GetTriangleIndices(t)
	return Triangle{m.GetPosition(idx[0]), m.GetPosition(idx[1]), m.GetPosition(idx[2])}
}

// AppendTriangleIndices appends a new triangle and returns its index.
func (m *MeshView) AppendTriangleIndices(idx [3]uint32) uint32 {
	t := m.TriangleCount()
	*m.indices = append(*m.indices, idx[0], idx[1], idx[2])
	m.touchTriangle(t)
	return t
}

// SetTriangleIndices overwrites triangle t's indices.
func (m *MeshView) SetTriangleIndices(t uint32, idx [3]uint32) {
	m.checkTriangleIndex(t)
	base := 3 * t
	(*m.indices)[base] = idx[0]
	(*m.indices)[base+1] = idx[1]
	(*m.indices)[base+2] = idx[2]
	m.touchTriangle(t)
}

// InsertTriangleIndices inserts a new triangle at position t, shifting later
// triangles back by one.
func (m *MeshView) InsertTriangleIndices(t uint32, idx [3]uint32) {
	if t > m.TriangleCount() {
		panic(fmt.Sprintf("strokemesh: insert triangle index %d beyond count %d", t, m.TriangleCount()))
	}
	base := 3 * t
	*m.indices = append(*m.indices, 0, 0, 0)
	copy((*m.indices)[base+3:], (*m.indices)[base:len(*m.indices)-3])
	(*m.indices)[base] = idx[0]
	(*m.indices)[base+1] = idx[1]
	(*m.indices)[base+2] = idx[2]
	m.touchTriangle(t)
}

// TruncateVertices removes vertices from newCount onward. A no-op if
// newCount >= the current vertex count.
func (m *MeshView) TruncateVertices(newCount uint32) {
	if newCount >= m.VertexCount() {
		return
	}
	*m.vertices = (*m.vertices)[:newCount]
	if m.firstMutatedVertex > newCount {
		m.firstMutatedVertex = newCount
	}
}

// TruncateTriangles removes triangles from newCount onward. A no-op if
// newCount >= the current triangle count.
func (m *MeshView) TruncateTriangles(newCount uint32) {
	if newCount >= m.TriangleCount() {
		return
	}
	*m.indices = (*m.indices)[:3*newCount]
	if m.firstMutatedTriangle > newCount {
		m.firstMutatedTriangle = newCount
	}
}

// Clear removes every vertex and triangle.
func (m *MeshView) Clear() {
	*m.vertices = (*m.vertices)[:0]
	*m.indices = (*m.indices)[:0]
	m.ResetMutationTracking()
}

// FirstMutatedVertex returns the lowest vertex index modified since
// construction or the last ResetMutationTracking call.
func (m *MeshView) FirstMutatedVertex() uint32 { return m.firstMutatedVertex }

// FirstMutatedTriangle returns the lowest triangle index modified since
// construction or the last ResetMutationTracking call.
func (m *MeshView) FirstMutatedTriangle() uint32 { return m.firstMutatedTriangle }

// ResetMutationTracking marks all current vertices/triangles as unmutated.
func (m *MeshView) ResetMutationTracking() {
	m.firstMutatedVertex = m.VertexCount()
	m.firstMutatedTriangle = m.TriangleCount()
}
