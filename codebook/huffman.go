package codebook

import (
	"fmt"

	"github.com/dargueta/depthpack"
	"golang.org/x/exp/slices"
)

// FromWeights builds a Huffman code for symbols with the given relative
// frequencies, then assigns canonical codes with [FromLengths].
//
// Every symbol gets a code, even if its weight is 0. If the optimal code would
// contain a code word longer than `maxLength`, the weights are flattened until
// it doesn't; the result is then no longer optimal, but close.
func FromWeights(name string, weights []uint64, maxLength uint8) (*Codebook, error) {
	if maxLength == 0 || maxLength > MaxCodeLength {
		return nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("maximum code length must be in [1, %d], got %d", MaxCodeLength, maxLength))
	}
	if len(weights) < 2 {
		return nil, depthpack.ErrInvalidCodebook.WithMessage(
			fmt.Sprintf("%s: need at least two symbols, got %d", name, len(weights)))
	}
	if uint64(len(weights)) > uint64(1)<<maxLength {
		return nil, depthpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"%s: %d symbols can't fit in codes of at most %d bits",
				name,
				len(weights),
				maxLength))
	}

	adjusted := make([]uint64, len(weights))
	for i, weight := range weights {
		// Zero weights would make ties between empty subtrees, and keeping every
		// symbol encodable is more useful than saving a bit on unused ones.
		if weight == 0 {
			weight = 1
		}
		// Cap weights so sums of up to 2^16 of them can't overflow.
		if weight > 1<<46 {
			weight = 1 << 46
		}
		adjusted[i] = weight
	}

	for {
		lengths := huffmanLengths(adjusted)
		if maxOf(lengths) <= maxLength {
			return FromLengths(name, lengths)
		}

		// Halving every weight while keeping it positive shrinks the ratio
		// between the largest and smallest weights, which bounds tree depth.
		// Weights converge to 1 or 2, so this terminates.
		for i := range adjusted {
			adjusted[i] = adjusted[i]/2 + 1
		}
	}
}

type huffmanNode struct {
	weight uint64
	parent int
	// symbol is the leaf's symbol, or -1 for interior nodes.
	symbol int
}

// huffmanLengths computes optimal code lengths with the two-queue method:
// leaves sorted by weight form one queue, and merged nodes, which are created
// in nondecreasing weight order, form the other.
func huffmanLengths(weights []uint64) []uint8 {
	numLeaves := len(weights)
	nodes := make([]huffmanNode, numLeaves, 2*numLeaves-1)
	for symbol, weight := range weights {
		nodes[symbol] = huffmanNode{weight: weight, parent: -1, symbol: symbol}
	}

	// Sort by weight; break ties by symbol so the result is deterministic.
	slices.SortFunc(nodes, func(a, b huffmanNode) bool {
		if a.weight != b.weight {
			return a.weight < b.weight
		}
		return a.symbol < b.symbol
	})

	nextLeaf := 0
	nextMerged := numLeaves
	takeSmallest := func() int {
		if nextLeaf < numLeaves &&
			(nextMerged >= len(nodes) || nodes[nextLeaf].weight <= nodes[nextMerged].weight) {
			nextLeaf++
			return nextLeaf - 1
		}
		nextMerged++
		return nextMerged - 1
	}

	for i := 0; i < numLeaves-1; i++ {
		first := takeSmallest()
		second := takeSmallest()
		nodes = append(nodes, huffmanNode{
			weight: nodes[first].weight + nodes[second].weight,
			parent: -1,
			symbol: -1,
		})
		merged := len(nodes) - 1
		nodes[first].parent = merged
		nodes[second].parent = merged
	}

	// Parents always come after their children, so walking backwards from the
	// root sees every parent's depth before its children need it.
	depths := make([]uint8, len(nodes))
	lengths := make([]uint8, numLeaves)
	for i := len(nodes) - 2; i >= 0; i-- {
		depths[i] = depths[nodes[i].parent] + 1
		if nodes[i].symbol >= 0 {
			lengths[nodes[i].symbol] = depths[i]
		}
	}
	return lengths
}

func maxOf(values []uint8) uint8 {
	result := uint8(0)
	for _, v := range values {
		if v > result {
			result = v
		}
	}
	return result
}
