package main

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/vector"
)

// roundTipTexture rasterizes an antialiased disc of the given diameter (in
// pixels) and returns it as an ebiten.Image, for use as the brush tip's
// surface texture under TextureCoordTiling.
func roundTipTexture(diameter int) *ebiten.Image {
	if diameter < 1 {
		diameter = 1
	}
	r := vector.NewRasterizer(diameter, diameter)

	cx := float32(diameter) / 2
	cy := float32(diameter) / 2
	radius := float32(diameter) / 2

	const segments = 48
	r.MoveTo(cx+radius, cy)
	for i := 1; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		x := cx + radius*float32(math.Cos(theta))
		y := cy + radius*float32(math.Sin(theta))
		r.LineTo(x, y)
	}
	r.ClosePath()

	alpha := image.NewAlpha(image.Rect(0, 0, diameter, diameter))
	r.Draw(alpha, alpha.Bounds(), image.Opaque, image.Point{})

	rgba := image.NewRGBA(alpha.Bounds())
	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			a := alpha.AlphaAt(x, y).A
			i := rgba.PixOffset(x, y)
			rgba.Pix[i] = 255
			rgba.Pix[i+1] = 255
			rgba.Pix[i+2] = 255
			rgba.Pix[i+3] = a
		}
	}

	return ebiten.NewImageFromImage(rgba)
}
