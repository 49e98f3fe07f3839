package strokemesh

// TipState is one sample of the brush tip's shape and appearance, produced
// by an upstream tip modeler from a ModeledInput and the brush's behaviors.
// See spec §6.
type TipState struct {
	Position        Point
	Width, Height   float64
	CornerRounding  float64
	Rotation        float64
	Slant           float64
	Pinch           float64
	OpacityShift    float64
	HSLShift        [3]float64
	IsParticle      bool
	AnimationOffset float64
}

// AverageDimension returns the mean of the tip's width and height, the
// quantity the engine's travel budgets (see Budgets) scale from.
func (t TipState) AverageDimension() float64 { return (t.Width + t.Height) / 2 }

// TipStateStream exposes the two tip-state lists maintained per stroke: new
// fixed tip states, appended once and never retracted, and volatile tip
// states, which are cleared and recomputed on every update to reflect
// in-progress prediction.
type TipStateStream interface {
	NewFixedTipStates() []TipState
	VolatileTipStates() []TipState
}
