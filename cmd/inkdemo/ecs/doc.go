// Package ecs provides a Donburi ECS adapter for strokemesh: a component
// that attaches a live [strokemesh.Geometry]/[strokemesh.MeshView] pair to a
// Donburi entity, and a typed event published whenever a stroke's extrusion
// break closes it out (see [strokemesh.Geometry.AddExtrusionBreak]).
//
// Usage:
//
//	world := donburi.NewWorld()
//	entry := world.Entry(world.Create(ecs.StrokeComponent))
//	stroke := ecs.NewStroke(mesh)
//	ecs.StrokeComponent.SetValue(entry, stroke)
//	...
//	ecs.StrokeCompletedEventType.Publish(world, ecs.StrokeCompletedEvent{Entity: entry.Entity()})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
