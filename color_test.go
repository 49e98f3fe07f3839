package strokemesh

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestColorWhiteIsOpaqueAndUntinted(t *testing.T) {
	if ColorWhite != (Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("ColorWhite = %+v, want all components 1", ColorWhite)
	}
}

func TestBlendModeEbitenBlendMapping(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want ebiten.Blend
	}{
		{BlendNormal, ebiten.BlendSourceOver},
		{BlendAdd, ebiten.BlendLighter},
		{BlendErase, ebiten.BlendDestinationOut},
	}
	for _, tc := range tests {
		if got := tc.mode.EbitenBlend(); got != tc.want {
			t.Errorf("BlendMode(%d).EbitenBlend() = %+v, want %+v", tc.mode, got, tc.want)
		}
	}
}

func TestBlendModeZeroValueIsNormal(t *testing.T) {
	var mode BlendMode
	if mode != BlendNormal {
		t.Errorf("zero value BlendMode = %v, want BlendNormal", mode)
	}
}
