// Command inkdemo is a small interactive demo that drives strokemesh.Geometry
// from real mouse input and renders the resulting triangle-strip mesh with
// ebiten. It supplies the three collaborators the core deliberately keeps
// external: an input modeler (recordedInputStream), a tip modeler
// (fixedTipStream), and outline generation (the perpendicular-offset
// extrusion in appendOutlineSample).
package main

import (
	"flag"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	strokemesh "github.com/inkmesh/strokemesh"
	"github.com/inkmesh/strokemesh/cmd/inkdemo/ecs"
)

var (
	screenWidth  = flag.Int("width", 960, "window width in pixels")
	screenHeight = flag.Int("height", 640, "window height in pixels")
	tipDiameter  = flag.Float64("tip", 18, "brush tip diameter in pixels")
)

const fadeInDuration = float32(0.25)

type game struct {
	world  donburi.World
	tipTex *ebiten.Image

	active   *donburi.Entry
	input    *recordedInputStream
	tips     *fixedTipStream
	lastTime float64

	finished []*donburi.Entry
}

func newGame() *game {
	g := &game{
		world:  donburi.NewWorld(),
		tipTex: roundTipTexture(int(*tipDiameter)),
	}
	ecs.StrokeCompletedEventType.Subscribe(g.world, g.onStrokeCompleted)
	return g
}

func (g *game) onStrokeCompleted(w donburi.World, e ecs.StrokeCompletedEvent) {
	entry := w.Entry(e.Entity)
	stroke := ecs.StrokeComponent.Get(entry)
	stroke.Fade = strokemesh.NewStrokeFade(0, 1, fadeInDuration, ease.OutCubic)
	g.finished = append(g.finished, entry)
}

func (g *game) Update() error {
	dt := 1.0 / 60.0

	px, py := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case pressed && g.active == nil:
		g.beginStroke(float64(px), float64(py))
	case pressed && g.active != nil:
		g.extendStroke(float64(px), float64(py), dt)
	case !pressed && g.active != nil:
		g.endStroke()
	}

	ecs.StrokeCompletedEventType.ProcessEvents(g.world)

	for _, entry := range g.finished {
		stroke := ecs.StrokeComponent.Get(entry)
		if stroke.Fade != nil {
			stroke.Fade.Update(float32(dt))
		}
	}

	return nil
}

func (g *game) beginStroke(x, y float64) {
	var verts []strokemesh.Vertex
	var indices []uint32
	mesh := strokemesh.NewMeshView(&verts, &indices)

	entity := g.world.Create(ecs.StrokeComponent)
	entry := g.world.Entry(entity)
	stroke := ecs.NewStroke(mesh)
	stroke.Geometry.SetTextureCoordType(strokemesh.TextureCoordTiling)
	stroke.Tint = strokemesh.Color{R: 0.1, G: 0.1, B: 0.15, A: 1}
	ecs.StrokeComponent.SetValue(entry, stroke)

	g.active = entry
	g.input = &recordedInputStream{}
	g.tips = &fixedTipStream{}
	g.lastTime = 0

	g.input.append(strokemesh.ModeledInput{Position: strokemesh.Point{X: x, Y: y}, Tool: strokemesh.ToolMouse})
	g.tips.append(strokemesh.TipState{Position: strokemesh.Point{X: x, Y: y}, Width: *tipDiameter, Height: *tipDiameter})
}

func (g *game) extendStroke(x, y, dt float64) {
	stroke := ecs.StrokeComponent.Get(g.active)

	var input strokemesh.ModeledInputStream = g.input
	prev := input.At(input.Len() - 1)
	pos := strokemesh.Point{X: x, Y: y}
	delta := pos.Sub(prev.Position)
	if delta.Length() < 1e-6 {
		return // no meaningful movement since the last sample
	}

	g.lastTime += dt
	sample := strokemesh.ModeledInput{
		Position:         pos,
		Time:             g.lastTime,
		TraveledDistance: prev.TraveledDistance + delta.Length(),
		Velocity:         delta.Scale(1 / dt),
		Tool:             strokemesh.ToolMouse,
	}
	g.input.append(sample)

	var tips strokemesh.TipStateStream = g.tips
	prevTip := tips.NewFixedTipStates()[len(tips.NewFixedTipStates())-1]
	// Damp width changes between samples so a jittery mouse doesn't produce a
	// visibly beaded outline; pressure-driven width modeling belongs upstream
	// in a real tip modeler, this is the demo's stand-in.
	width := (prevTip.Width + *tipDiameter) / 2
	tip := strokemesh.TipState{Position: pos, Width: width, Height: width}
	g.tips.append(tip)

	appendOutlineSample(stroke.Geometry, prev.Position, pos, tip, sample.TraveledDistance)
	stroke.Geometry.ProcessNewVertices(tip.AverageDimension()*0.25, tip)
}

func (g *game) endStroke() {
	ecs.Complete(g.world, g.active)
	g.active = nil
	g.input = nil
	g.tips = nil
}

// appendOutlineSample offsets `to` perpendicular to the direction of travel
// by the tip's half-width on each side and appends the pair of outline
// vertices. This is the demo's stand-in for the tip extruder's true
// shape-dependent outline generation (round/rounded-rectangle tip tracing) —
// sufficient to exercise Geometry with a round brush, same as the teacher's
// Rope.SetPoints offsets a centerline by a fixed half-width per segment.
func appendOutlineSample(g *strokemesh.Geometry, from, to strokemesh.Point, tip strokemesh.TipState, traveled float64) {
	dir := to.Sub(from)
	if dir.Length() < 1e-9 {
		dir = strokemesh.Vec{X: 1, Y: 0}
	} else {
		dir = dir.Normalized()
	}
	perp := strokemesh.Vec{X: -dir.Y, Y: dir.X}
	half := tip.AverageDimension() / 2

	left := to.Add(perp.Scale(half))
	right := to.Add(perp.Scale(-half))
	v := traveled / tip.AverageDimension()

	g.AppendLeftVertex(left, 0, [3]float64{}, strokemesh.Point{X: 0, Y: v}, 0)
	g.AppendRightVertex(right, 0, [3]float64{}, strokemesh.Point{X: 1, Y: v}, 0)
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 250, G: 248, B: 240, A: 255})

	if g.active != nil {
		drawStroke(screen, ecs.StrokeComponent.Get(g.active), g.tipTex)
	}
	for _, entry := range g.finished {
		drawStroke(screen, ecs.StrokeComponent.Get(entry), g.tipTex)
	}
}

func drawStroke(screen *ebiten.Image, stroke *ecs.Stroke, tex *ebiten.Image) {
	stroke.Geometry.UpdateMeshDerivatives()
	region := stroke.Geometry.CalculateVisuallyUpdatedRegion()
	_ = region // a production renderer would scissor to this rect; the demo just redraws the whole mesh
	stroke.Geometry.ResetMutationTracking()

	mesh := stroke.Mesh
	n := mesh.VertexCount()
	if n == 0 {
		return
	}

	opacity := 1.0
	if stroke.Fade != nil {
		opacity = stroke.Fade.Opacity
	}
	tint := stroke.Tint

	verts := make([]ebiten.Vertex, n)
	for i := uint32(0); i < n; i++ {
		v := mesh.GetVertex(i)
		verts[i] = ebiten.Vertex{
			DstX:   float32(v.Position.X),
			DstY:   float32(v.Position.Y),
			SrcX:   float32(v.SurfaceUV.X) * float32(tex.Bounds().Dx()),
			SrcY:   float32(v.SurfaceUV.Y) * float32(tex.Bounds().Dy()),
			ColorR: float32(tint.R),
			ColorG: float32(tint.G),
			ColorB: float32(tint.B),
			ColorA: float32(tint.A * opacity),
		}
	}

	triCount := mesh.TriangleCount()
	indices := make([]uint16, 0, triCount*3)
	for t := uint32(0); t < triCount; t++ {
		idx := mesh.GetTriangleIndices(t)
		indices = append(indices, uint16(idx[0]), uint16(idx[1]), uint16(idx[2]))
	}

	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(verts, indices, tex, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return *screenWidth, *screenHeight
}

func main() {
	flag.Parse()
	ebiten.SetWindowSize(*screenWidth, *screenHeight)
	ebiten.SetWindowTitle("inkdemo")

	g := newGame()
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("strokemesh: inkdemo exited: %v", err)
	}
}
