// Package strokemesh incrementally builds the triangle-strip mesh that
// represents a freehand stroke: a variable-width ribbon traced along a
// sequence of left/right outline vertices.
//
// Geometry is the entry point. Callers feed it pairs of candidate outline
// vertices via AppendLeftVertex/AppendRightVertex, then call
// ProcessNewVertices to triangulate them into a caller-owned MeshView,
// repairing any self-intersections that result from the stroke looping back
// on itself. UpdateMeshDerivatives and CalculateVisuallyUpdatedRegion expose
// what downstream rendering needs: per-vertex anti-aliasing derivatives and
// labels, and a bounding rectangle of what changed.
package strokemesh
