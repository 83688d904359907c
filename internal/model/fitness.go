package model

// FitnessInfo carries a genome's primary fitness plus any auxiliary scores an
// evaluator wants to report alongside it. Evaluators in this module produce
// non-negative primary fitness, so the null value ranks at or below every
// scored genome.
type FitnessInfo struct {
	Primary float64   `json:"primary"`
	Aux     []float64 `json:"aux,omitempty"`
}

// NullFitnessInfo is assigned to genomes that could not be scored, for
// example when decoding into a phenotype fails.
var NullFitnessInfo = FitnessInfo{}

// CompareFitness orders fitness by primary score, higher is better. Returns
// -1, 0 or 1.
func CompareFitness(a, b FitnessInfo) int {
	switch {
	case a.Primary < b.Primary:
		return -1
	case a.Primary > b.Primary:
		return 1
	default:
		return 0
	}
}
