package main

import strokemesh "github.com/inkmesh/strokemesh"

// recordedInputStream is the demo's minimal ModeledInputStream: it buffers
// every raw pointer sample taken this session. There is no smoothing or
// resampling here — that stage is external to the core per the engine's
// contract — so every sample is stable the instant it's appended.
type recordedInputStream struct {
	samples []strokemesh.ModeledInput
}

func (s *recordedInputStream) Len() int                         { return len(s.samples) }
func (s *recordedInputStream) At(i int) strokemesh.ModeledInput { return s.samples[i] }
func (s *recordedInputStream) StableCount() int                 { return len(s.samples) }

func (s *recordedInputStream) append(in strokemesh.ModeledInput) {
	s.samples = append(s.samples, in)
}

// fixedTipStream pairs one new fixed tip state per appended input sample;
// it never predicts ahead, so VolatileTipStates is always empty.
type fixedTipStream struct {
	fixed []strokemesh.TipState
}

func (s *fixedTipStream) NewFixedTipStates() []strokemesh.TipState { return s.fixed }
func (s *fixedTipStream) VolatileTipStates() []strokemesh.TipState { return nil }

func (s *fixedTipStream) append(t strokemesh.TipState) {
	s.fixed = append(s.fixed, t)
}
