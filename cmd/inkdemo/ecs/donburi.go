package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	strokemesh "github.com/inkmesh/strokemesh"
)

// StrokeCompletedEvent is published when a stroke entity's extrusion break
// closes it out — the point at which its mesh is final until the next
// pointer-down starts a new partition.
type StrokeCompletedEvent struct {
	Entity donburi.Entity
}

// StrokeCompletedEventType is the Donburi event type for StrokeCompletedEvent.
// Subscribe to it in ECS systems that need to react once a stroke stops
// growing (committing undo history, starting a fade-in, etc).
var StrokeCompletedEventType = events.NewEventType[StrokeCompletedEvent]()

// Stroke bundles the live extrusion state for one freehand stroke entity:
// its geometry engine, the mesh it writes into, and its fade-in animation.
type Stroke struct {
	Geometry *strokemesh.Geometry
	Mesh     *strokemesh.MeshView
	Tint     strokemesh.Color
	Fade     *strokemesh.StrokeFade
	Active   bool
}

// NewStroke creates a Stroke bound to mesh, with full opacity and no fade
// animation running. Callers append vertices via Geometry and read back
// triangles via Mesh.
func NewStroke(mesh *strokemesh.MeshView) Stroke {
	return Stroke{
		Geometry: strokemesh.NewGeometry(mesh),
		Mesh:     mesh,
		Tint:     strokemesh.ColorWhite,
		Active:   true,
	}
}

// StrokeComponent is the Donburi component type holding a Stroke.
var StrokeComponent = donburi.NewComponentType[Stroke]()

// Complete marks the stroke inactive, closes its current extrusion
// partition, and publishes a StrokeCompletedEvent for entity.
func Complete(world donburi.World, entry *donburi.Entry) {
	stroke := StrokeComponent.Get(entry)
	if !stroke.Active {
		return
	}
	stroke.Geometry.AddExtrusionBreak()
	stroke.Active = false
	StrokeCompletedEventType.Publish(world, StrokeCompletedEvent{Entity: entry.Entity()})
}
