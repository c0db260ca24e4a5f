// Package codebook implements the static prefix codes used by the depth frame
// codec.
//
// A Codebook has two views of the same code: a flat table mapping each symbol
// to its code word, used for encoding, and a binary tree, used for decoding one
// bit at a time. Both are derived from a list of code lengths using canonical
// code assignment, so an encoder and a decoder only need to agree on the
// lengths.
package codebook

import (
	"fmt"

	"github.com/dargueta/depthpack"
)

// MaxCodeLength is the longest code word a Codebook may contain.
const MaxCodeLength = 32

// LeafFlag is set on a [Node] child that refers to a symbol instead of another
// node.
const LeafFlag = uint32(1) << 31

// Code is a single code word: the `Length` low-order bits of `Bits`, to be
// written most significant bit first.
type Code struct {
	Bits   uint32
	Length uint8
}

func (c Code) String() string {
	return fmt.Sprintf("%0*b", int(c.Length), c.Bits)
}

// Node is an interior node of a decoding tree. Child[0] is followed on a 0 bit
// and Child[1] on a 1 bit. A child with [LeafFlag] set holds a symbol in its
// low bits; otherwise it's the index of another node. The root is node 0.
type Node struct {
	Child [2]uint32
}

// BitSource is anything that can supply bits to [Codebook.Decode].
type BitSource interface {
	ReadBit() (uint, error)
}

// Codebook is an immutable prefix code over the symbols 0 ... Len()-1.
type Codebook struct {
	name      string
	codes     []Code
	nodes     []Node
	maxLength uint8
}

// FromLengths builds the canonical prefix code with the given code length for
// each symbol. The lengths must describe a complete prefix code, i.e. one where
// every bit string eventually decodes to a symbol.
func FromLengths(name string, lengths []uint8) (*Codebook, error) {
	if len(lengths) < 2 {
		return nil, depthpack.ErrInvalidCodebook.WithMessage(
			fmt.Sprintf("%s: need at least two symbols, got %d", name, len(lengths)))
	}

	cb := &Codebook{
		name:  name,
		codes: make([]Code, len(lengths)),
	}
	if err := cb.assignCodes(lengths); err != nil {
		return nil, err
	}
	if err := cb.buildTree(); err != nil {
		return nil, err
	}
	return cb, nil
}

// Name returns the name the codebook was built with.
func (cb *Codebook) Name() string {
	return cb.name
}

// Len returns the number of symbols in the codebook.
func (cb *Codebook) Len() int {
	return len(cb.codes)
}

// Code returns the code word for `symbol`.
func (cb *Codebook) Code(symbol int) Code {
	return cb.codes[symbol]
}

// Codes returns a copy of the encoding table.
func (cb *Codebook) Codes() []Code {
	codes := make([]Code, len(cb.codes))
	copy(codes, cb.codes)
	return codes
}

// Nodes returns a copy of the decoding tree. A complete code over N symbols
// always has N-1 nodes.
func (cb *Codebook) Nodes() []Node {
	nodes := make([]Node, len(cb.nodes))
	copy(nodes, cb.nodes)
	return nodes
}

// Lengths returns the code length of every symbol. Passing the result to
// [FromLengths] reproduces the codebook.
func (cb *Codebook) Lengths() []uint8 {
	lengths := make([]uint8, len(cb.codes))
	for i, code := range cb.codes {
		lengths[i] = code.Length
	}
	return lengths
}

// MaxLength returns the length of the longest code word.
func (cb *Codebook) MaxLength() uint8 {
	return cb.maxLength
}

// Decode reads one code word from `src` and returns its symbol.
func (cb *Codebook) Decode(src BitSource) (int, error) {
	index := uint32(0)
	for {
		bit, err := src.ReadBit()
		if err != nil {
			return 0, err
		}
		child := cb.nodes[index].Child[bit&1]
		if child&LeafFlag != 0 {
			return int(child &^ LeafFlag), nil
		}
		index = child
	}
}

// Verify checks that the encoding table and the decoding tree describe the
// same complete prefix code: no code word is a prefix of another, every symbol
// is reachable, and decoding every code word from the tree yields its symbol.
func (cb *Codebook) Verify() error {
	check, err := FromLengths(cb.name, cb.Lengths())
	if err != nil {
		return err
	}
	if len(check.nodes) != len(cb.nodes) {
		return cb.invalid(
			fmt.Sprintf("tree has %d nodes, expected %d", len(cb.nodes), len(check.nodes)))
	}

	for symbol, code := range cb.codes {
		if code != check.codes[symbol] {
			return cb.invalid(
				fmt.Sprintf("symbol %d has code %s, expected %s", symbol, code, check.codes[symbol]))
		}

		decoded, err := cb.Decode(&codeBits{code: code})
		if err != nil {
			return cb.invalid(fmt.Sprintf("symbol %d: %s", symbol, err.Error()))
		}
		if decoded != symbol {
			return cb.invalid(
				fmt.Sprintf("code %s decodes to %d instead of %d", code, decoded, symbol))
		}
	}
	return nil
}

// assignCodes gives each symbol its canonical code: shorter codes come first,
// and codes of the same length are consecutive integers in symbol order.
func (cb *Codebook) assignCodes(lengths []uint8) error {
	var lengthCounts [MaxCodeLength + 1]uint64
	for symbol, length := range lengths {
		if length == 0 || length > MaxCodeLength {
			return cb.invalid(
				fmt.Sprintf("symbol %d has code length %d, not in [1, %d]", symbol, length, MaxCodeLength))
		}
		lengthCounts[length]++
		if length > cb.maxLength {
			cb.maxLength = length
		}
	}

	// Kraft's inequality must hold with equality for the code to be complete.
	// Sum 2^(max-len) over all symbols and compare against 2^max.
	kraftSum := uint64(0)
	for length := 1; length <= int(cb.maxLength); length++ {
		kraftSum += lengthCounts[length] << (cb.maxLength - uint8(length))
	}
	if kraftSum != uint64(1)<<cb.maxLength {
		return cb.invalid(
			fmt.Sprintf(
				"code lengths don't form a complete prefix code (Kraft sum %d/%d)",
				kraftSum,
				uint64(1)<<cb.maxLength))
	}

	var nextCode [MaxCodeLength + 1]uint64
	code := uint64(0)
	for length := 1; length <= int(cb.maxLength); length++ {
		code = (code + lengthCounts[length-1]) << 1
		nextCode[length] = code
	}

	for symbol, length := range lengths {
		cb.codes[symbol] = Code{Bits: uint32(nextCode[length]), Length: length}
		nextCode[length]++
	}
	return nil
}

// buildTree inserts every code word into a binary tree, failing if one code
// word turns out to be the prefix of another.
func (cb *Codebook) buildTree() error {
	// Child index 0 can't be a valid reference since that's the root, so it
	// marks an empty slot.
	cb.nodes = make([]Node, 1, len(cb.codes)-1)

	for symbol, code := range cb.codes {
		index := uint32(0)
		for i := int(code.Length) - 1; i > 0; i-- {
			bit := (code.Bits >> uint(i)) & 1
			child := cb.nodes[index].Child[bit]
			if child&LeafFlag != 0 {
				return cb.invalid(
					fmt.Sprintf("code of symbol %d has code of symbol %d as a prefix", symbol, child&^LeafFlag))
			}
			if child == 0 {
				cb.nodes = append(cb.nodes, Node{})
				child = uint32(len(cb.nodes) - 1)
				cb.nodes[index].Child[bit] = child
			}
			index = child
		}

		bit := code.Bits & 1
		if cb.nodes[index].Child[bit] != 0 {
			return cb.invalid(fmt.Sprintf("code of symbol %d is the prefix of another code", symbol))
		}
		cb.nodes[index].Child[bit] = LeafFlag | uint32(symbol)
	}

	for index, node := range cb.nodes {
		if node.Child[0] == 0 || node.Child[1] == 0 {
			return cb.invalid(fmt.Sprintf("node %d of the decoding tree is incomplete", index))
		}
	}
	return nil
}

func (cb *Codebook) invalid(message string) error {
	return depthpack.ErrInvalidCodebook.WithMessage(fmt.Sprintf("%s: %s", cb.name, message))
}

// codeBits feeds the bits of a single code word to Decode.
type codeBits struct {
	code Code
	used uint8
}

func (c *codeBits) ReadBit() (uint, error) {
	if c.used >= c.code.Length {
		return 0, depthpack.ErrInvalidCodebook.WithMessage("ran out of bits before reaching a leaf")
	}
	c.used++
	return uint(c.code.Bits>>(c.code.Length-c.used)) & 1, nil
}
