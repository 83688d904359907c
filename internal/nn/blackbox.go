// Package nn holds the executable phenotype side of the system: the black
// box contract evaluators drive, a fixed-topology feedforward network, and a
// decoder from genome weight vectors into networks.
package nn

// BlackBox is the decoded, executable form of a genome. The evaluator writes
// the input vector in place, calls Activate, reads the output vector, and
// must call ResetState between independent trials; the box may carry internal
// state across activations.
type BlackBox interface {
	InputCount() int
	OutputCount() int
	Inputs() []float64
	Outputs() []float64
	Activate()
	ResetState()
}
