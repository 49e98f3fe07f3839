package ecs

import (
	"testing"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	strokemesh "github.com/inkmesh/strokemesh"
)

func newTestMeshView() *strokemesh.MeshView {
	var verts []strokemesh.Vertex
	var indices []uint32
	return strokemesh.NewMeshView(&verts, &indices)
}

func newTestEntry(world donburi.World) *donburi.Entry {
	entity := world.Create(StrokeComponent)
	entry := world.Entry(entity)
	StrokeComponent.SetValue(entry, NewStroke(newTestMeshView()))
	return entry
}

func TestNewStrokeIsActiveWithFullOpacityTint(t *testing.T) {
	mesh := newTestMeshView()
	s := NewStroke(mesh)

	if !s.Active {
		t.Fatal("expected a new stroke to be Active")
	}
	if s.Tint != strokemesh.ColorWhite {
		t.Errorf("Tint = %+v, want ColorWhite", s.Tint)
	}
	if s.Geometry == nil || s.Mesh != mesh {
		t.Fatal("expected Geometry to be set and Mesh to be the supplied mesh")
	}
}

func TestCompletePublishesEventOnce(t *testing.T) {
	world := donburi.NewWorld()
	entry := newTestEntry(world)

	var received []StrokeCompletedEvent
	StrokeCompletedEventType.Subscribe(world, func(w donburi.World, e StrokeCompletedEvent) {
		received = append(received, e)
	})

	Complete(world, entry)
	Complete(world, entry) // second call is a no-op; stroke already inactive

	events.ProcessAllEvents(world)

	if len(received) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(received))
	}
	if received[0].Entity != entry.Entity() {
		t.Errorf("event entity = %v, want %v", received[0].Entity, entry.Entity())
	}

	stroke := StrokeComponent.Get(entry)
	if stroke.Active {
		t.Error("expected stroke to be inactive after Complete")
	}
}

func TestCompleteMarksGeometryPartitionClosed(t *testing.T) {
	world := donburi.NewWorld()
	entry := newTestEntry(world)

	before := StrokeComponent.Get(entry).Geometry.ExtrusionBreakCount()
	Complete(world, entry)
	after := StrokeComponent.Get(entry).Geometry.ExtrusionBreakCount()

	if after != before+1 {
		t.Errorf("ExtrusionBreakCount = %d, want %d", after, before+1)
	}
}
