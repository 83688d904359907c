package nn

import (
	"fmt"

	"github.com/filipGG/sharpneat-refactor/internal/model"
)

// VectorDecoder decodes a genome's flat weight vector into a LayeredNetwork
// of fixed topology. A length mismatch is a decode failure; callers absorb
// it by assigning null fitness rather than aborting the generation.
type VectorDecoder struct {
	LayerSizes []int
	Activation string
}

func (d VectorDecoder) Decode(genome *model.Genome) (BlackBox, error) {
	box, err := NewLayeredNetwork(d.LayerSizes, genome.Representation, d.Activation)
	if err != nil {
		return nil, fmt.Errorf("decode genome %d: %w", genome.ID, err)
	}
	return box, nil
}
