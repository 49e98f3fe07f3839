package strokemesh

// Budgets are the four travel-distance limits that scale all of the
// geometry engine's per-call decisions: how far along the outline the
// search for the end of a self-intersection may walk, the limit on travel
// from a self-intersection's starting position (recorded on each new
// intersection), how far a self-intersection must travel from its starting
// position before retriangulation begins, and the longest gap a
// simplification may leave between kept vertices. All four are derived from a
// single input, the active brush tip's average dimension, per spec §4.6.
type Budgets struct {
	OutlineRepositionBudget         float64
	IntersectionTravelLimit         float64
	RetriangulationTravelThreshold  float64
	SimplificationTravelLimit       float64
}

// BudgetsForAverageDimension computes the four budgets for a brush tip whose
// average dimension (mean of width and height) is s.
func BudgetsForAverageDimension(s float64) Budgets {
	return Budgets{
		OutlineRepositionBudget:        s,
		IntersectionTravelLimit:        1.25 * s,
		RetriangulationTravelThreshold: 0.125 * s,
		SimplificationTravelLimit:      8 * s,
	}
}
