package strokemesh

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// StrokeFade animates a completed stroke's opacity, e.g. to fade in freshly
// committed ink or fade out an eraser preview. Call Update(dt) once per
// frame; read Opacity to scale the stroke's tint alpha at draw time.
//
// There is no global animation manager; callers own and update their own
// StrokeFade values, same as the teacher's TweenGroup had no implicit
// per-frame driver.
type StrokeFade struct {
	tween   *gween.Tween
	Opacity float64
	Done    bool
}

// NewStrokeFade creates a StrokeFade animating from `from` to `to` over
// duration seconds using the given easing function.
func NewStrokeFade(from, to float64, duration float32, fn ease.TweenFunc) *StrokeFade {
	return &StrokeFade{
		tween:   gween.New(float32(from), float32(to), duration, fn),
		Opacity: from,
	}
}

// Update advances the fade by dt seconds and updates Opacity. Once the tween
// completes, Done is set and further calls are no-ops.
func (f *StrokeFade) Update(dt float32) {
	if f.Done {
		return
	}
	val, finished := f.tween.Update(dt)
	f.Opacity = float64(val)
	f.Done = finished
}
