package strokemesh

import "testing"

// turnTip is the brush tip width/height (2x2) used by the self-intersection
// scenarios below: the retriangulation travel threshold and reposition
// budget scale off its average dimension, so the exact coordinates in
// buildLeftTurnIntersection only trigger the intended repair path at this
// size.
var turnTip = TipState{Width: 2, Height: 2}

// buildLeftTurnIntersection extrudes a straight strip of half-width 1
// starting at y = startY, then makes a sharp left turn that folds the left
// side back on itself, leaving an active, retriangulating self-intersection
// on the left side.
func buildLeftTurnIntersection(g *Geometry, startY float64) {
	g.AppendLeftVertex(Point{X: 0, Y: startY}, 0, [3]float64{}, Point{}, 0)
	g.AppendLeftVertex(Point{X: 0, Y: startY + 2}, 0, [3]float64{}, Point{}, 0)
	g.AppendLeftVertex(Point{X: 0, Y: startY + 4}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 2, Y: startY}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 2, Y: startY + 2}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 2, Y: startY + 4}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)

	g.AppendLeftVertex(Point{X: 1, Y: startY + 3}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)

	g.AppendLeftVertex(Point{X: 0.75, Y: startY + 3}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 0.75, Y: startY + 5}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)
}

func sideCategories(mesh *MeshView, side *Side) []SideCategory {
	out := make([]SideCategory, len(side.Indices))
	for i, idx := range side.Indices {
		out[i] = mesh.GetSideLabel(idx).DecodeSideCategory()
	}
	return out
}

func assertSideCategories(t *testing.T, got, want []SideCategory, label string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s categories = %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %v, want %v", label, i, got[i], want[i])
		}
	}
}

// TestGeometrySelfIntersectionStartsRetriangulation covers spec scenario S3:
// a sharp left turn starts self-intersection repair and begins
// retriangulating around a pivot vertex held interior, while the untouched
// opposite side stays fully exterior.
func TestGeometrySelfIntersectionStartsRetriangulation(t *testing.T) {
	g, _, _ := newTestGeometry()
	buildLeftTurnIntersection(g, 0)

	left := g.LeftSide()
	if left.Intersection == nil {
		t.Fatal("expected an active intersection on the left side")
	}
	if !left.Intersection.RetriangulationStarted {
		t.Fatal("expected retriangulation to have started")
	}

	g.UpdateMeshDerivatives()
	mesh := g.GetMeshView()

	assertSideCategories(t, sideCategories(mesh, left), []SideCategory{
		SideCategoryExteriorLeft,
		SideCategoryExteriorLeft,
		SideCategoryExteriorLeft,
		SideCategoryExteriorLeft,
		SideCategoryInterior,
	}, "left")

	right := g.RightSide()
	want := make([]SideCategory, len(right.Indices))
	for i := range want {
		want[i] = SideCategoryExteriorRight
	}
	assertSideCategories(t, sideCategories(mesh, right), want, "right")
}

// TestGeometryExtrusionBreakDuringRetriangulationStaysForwardInterior covers
// spec scenario S4: a break hitting mid-retriangulation leaves the last
// vertex on each side forward-interior rather than forward-exterior-back,
// since the triangle fan around the pivot is still open. Exercised once with
// the left side retriangulating and once with the right, since
// AddExtrusionBreak must check both sides jointly.
func TestGeometryExtrusionBreakDuringRetriangulationStaysForwardInterior(t *testing.T) {
	g, _, _ := newTestGeometry()
	buildLeftTurnIntersection(g, 0)
	if !g.LeftSide().Intersection.RetriangulationStarted {
		t.Fatal("test setup didn't reach retriangulation on the left side")
	}

	g.AddExtrusionBreak()

	mesh := g.GetMeshView()
	left, right := g.LeftSide(), g.RightSide()
	if cat := mesh.GetForwardLabel(left.Indices[len(left.Indices)-1]).DecodeForwardCategory(); cat != ForwardCategoryInterior {
		t.Errorf("left forward category after break = %v, want Interior", cat)
	}
	if cat := mesh.GetForwardLabel(right.Indices[len(right.Indices)-1]).DecodeForwardCategory(); cat != ForwardCategoryInterior {
		t.Errorf("right forward category after break = %v, want Interior", cat)
	}

	// Repeat with a turn to the right, to exercise the opposite side's
	// retriangulation flag.
	g.AppendLeftVertex(Point{X: 0, Y: 0}, 0, [3]float64{}, Point{}, 0)
	g.AppendLeftVertex(Point{X: 0, Y: 2}, 0, [3]float64{}, Point{}, 0)
	g.AppendLeftVertex(Point{X: 0, Y: 4}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 2, Y: 0}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 2, Y: 2}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 2, Y: 4}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)

	g.AppendRightVertex(Point{X: 1, Y: 3}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)

	g.AppendLeftVertex(Point{X: 0.75, Y: 5}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: 0.75, Y: 3}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)

	if g.RightSide().Intersection == nil || !g.RightSide().Intersection.RetriangulationStarted {
		t.Fatal("test setup didn't reach retriangulation on the right side")
	}

	g.AddExtrusionBreak()

	left, right = g.LeftSide(), g.RightSide()
	if cat := mesh.GetForwardLabel(left.Indices[len(left.Indices)-1]).DecodeForwardCategory(); cat != ForwardCategoryInterior {
		t.Errorf("left forward category after second break = %v, want Interior", cat)
	}
	if cat := mesh.GetForwardLabel(right.Indices[len(right.Indices)-1]).DecodeForwardCategory(); cat != ForwardCategoryInterior {
		t.Errorf("right forward category after second break = %v, want Interior", cat)
	}
}

// TestGeometryGiveUpIntersectionStartsNewPartition covers spec scenario S5:
// continuing to travel backward past the reposition budget forces the
// repair to give up, recording a discontinuity and starting a fresh
// connected partition rather than leaving the mesh mid-repair.
func TestGeometryGiveUpIntersectionStartsNewPartition(t *testing.T) {
	g, _, _ := newTestGeometry()
	buildLeftTurnIntersection(g, 0)

	left := g.LeftSide()
	if !left.Intersection.RetriangulationStarted {
		t.Fatal("test setup didn't reach retriangulation")
	}
	discontinuitiesBefore := len(left.IntersectionDiscontinuities)

	g.AppendRightVertex(Point{X: 0, Y: 5}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: -1.25, Y: 4}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: -1.25, Y: 3}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)

	g.AppendLeftVertex(Point{X: 0.75, Y: 1}, 0, [3]float64{}, Point{}, 0)
	g.AppendRightVertex(Point{X: -1.25, Y: 1}, 0, [3]float64{}, Point{}, 0)
	g.ProcessNewVertices(0, turnTip)

	if left.Intersection != nil {
		t.Fatal("expected the intersection to have been given up")
	}
	if got := len(left.IntersectionDiscontinuities); got != discontinuitiesBefore+1 {
		t.Errorf("IntersectionDiscontinuities count = %d, want %d", got, discontinuitiesBefore+1)
	}

	g.UpdateMeshDerivatives()
	mesh := g.GetMeshView()
	assertSideCategories(t, sideCategories(mesh, left), []SideCategory{
		SideCategoryExteriorLeft,
		SideCategoryExteriorLeft,
		SideCategoryExteriorLeft,
		SideCategoryExteriorLeft,
		SideCategoryInterior,
		SideCategoryExteriorLeft,
		SideCategoryExteriorLeft,
	}, "left")

	right := g.RightSide()
	want := make([]SideCategory, len(right.Indices))
	for i := range want {
		want[i] = SideCategoryExteriorRight
	}
	assertSideCategories(t, sideCategories(mesh, right), want, "right")
}

// TestGeometrySaveClearRevertThroughIntersectingLoops covers spec scenario
// S6: a save point taken after a break and two self-intersecting loops must
// survive an intervening clear-since-break and a differently shaped
// extension, reverting to exactly the state a twin engine reaches by
// stopping right after those pre-save operations.
func TestGeometrySaveClearRevertThroughIntersectingLoops(t *testing.T) {
	build := func(g *Geometry) {
		appendStraightPair(g, 0)
		appendStraightPair(g, 1)
		g.ProcessNewVertices(0, straightTip)
		g.AddExtrusionBreak()
		buildLeftTurnIntersection(g, 100)
		buildLeftTurnIntersection(g, 200)
	}

	twin, _, _ := newTestGeometry()
	build(twin)

	g, _, _ := newTestGeometry()
	build(g)

	if got, want := g.GetMeshView().VertexCount(), twin.GetMeshView().VertexCount(); got != want {
		t.Fatalf("test setup diverged before save point: %d vs twin's %d", got, want)
	}

	g.SetSavePoint()

	buildLeftTurnIntersection(g, 300)
	g.ClearSinceLastExtrusionBreak()
	buildLeftTurnIntersection(g, 400)
	g.RevertToSavePoint()

	mesh, twinMesh := g.GetMeshView(), twin.GetMeshView()
	if got, want := mesh.VertexCount(), twinMesh.VertexCount(); got != want {
		t.Fatalf("VertexCount after revert = %d, want twin's %d", got, want)
	}
	if got, want := mesh.TriangleCount(), twinMesh.TriangleCount(); got != want {
		t.Fatalf("TriangleCount after revert = %d, want twin's %d", got, want)
	}
	for i := uint32(0); i < mesh.VertexCount(); i++ {
		if got, want := mesh.GetVertex(i), twinMesh.GetVertex(i); got != want {
			t.Errorf("vertex %d after revert = %+v, want twin's %+v", i, got, want)
		}
	}
}
