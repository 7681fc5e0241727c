// Package huffman implements KMR's delta + run-length + canonical Huffman
// codec for nodal grid channels.
//
// The canonical code construction is a pure-Go port of the classic
// priority-queue Huffman tree builder, adapted to emit MSB-first canonical
// codes (length ascending, then symbol ascending) rather than the
// bit-reversed LSB-first codes a streaming VP8L-style bit writer would use.
package huffman

import (
	"container/heap"
	"sort"
)

// codeTable holds, for each symbol with a non-zero count, its canonical
// code length and its MSB-first codeword.
type codeTable struct {
	lengths [256]uint8
	codes   [256]uint32
}

type treeNode struct {
	count uint32
	value int // symbol for leaves, -1 for internal nodes
	left  int
	right int
}

type nodeHeap struct {
	pool    []treeNode
	indices []int
}

func (h *nodeHeap) Len() int { return len(h.indices) }

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.pool[h.indices[i]], h.pool[h.indices[j]]
	if a.count != b.count {
		return a.count < b.count
	}
	return h.indices[i] < h.indices[j]
}

func (h *nodeHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }

func (h *nodeHeap) Push(x any) { h.indices = append(h.indices, x.(int)) }

func (h *nodeHeap) Pop() any {
	old := h.indices
	n := len(old)
	idx := old[n-1]
	h.indices = old[:n-1]
	return idx
}

// codeLengthLimit bounds the maximum canonical code length this codec will
// produce. 24 leaves headroom under the 32-bit limit of a single
// ReadBits/WriteBits call; a Huffman tree over at most 256 symbols only
// approaches this depth for pathologically skewed (near-Fibonacci)
// histograms, which buildCodeLengths handles by clamping low counts up and
// rebuilding, the same strategy libwebp's GenerateOptimalTree uses.
const codeLengthLimit = 24

// buildCodeLengths builds a Huffman tree over the given byte histogram and
// writes each symbol's code length into lengths. A single distinct symbol
// is assigned length 1. If an ordinary build would exceed
// codeLengthLimit, low-frequency counts are clamped upward and the tree is
// rebuilt until all depths fit.
func buildCodeLengths(histogram [256]uint32, lengths *[256]uint8) {
	var nonZero []int
	for sym := 0; sym < 256; sym++ {
		if histogram[sym] != 0 {
			nonZero = append(nonZero, sym)
		}
	}

	switch len(nonZero) {
	case 0:
		return
	case 1:
		lengths[nonZero[0]] = 1
		return
	}

	for countMin := uint32(1); ; countMin *= 2 {
		for i := range lengths {
			lengths[i] = 0
		}

		h := &nodeHeap{}
		for _, sym := range nonZero {
			count := histogram[sym]
			if count < countMin {
				count = countMin
			}
			idx := len(h.pool)
			h.pool = append(h.pool, treeNode{count: count, value: sym, left: -1, right: -1})
			h.indices = append(h.indices, idx)
		}

		heap.Init(h)
		for h.Len() > 1 {
			leftIdx := heap.Pop(h).(int)
			rightIdx := heap.Pop(h).(int)
			parentIdx := len(h.pool)
			h.pool = append(h.pool, treeNode{
				count: h.pool[leftIdx].count + h.pool[rightIdx].count,
				value: -1,
				left:  leftIdx,
				right: rightIdx,
			})
			heap.Push(h, parentIdx)
		}

		assignDepths(h.pool, h.indices[0], 0, lengths)

		maxDepth := 0
		for _, sym := range nonZero {
			if int(lengths[sym]) > maxDepth {
				maxDepth = int(lengths[sym])
			}
		}
		if maxDepth <= codeLengthLimit {
			return
		}
	}
}

func assignDepths(pool []treeNode, nodeIdx, depth int, lengths *[256]uint8) {
	node := &pool[nodeIdx]
	if node.value >= 0 {
		lengths[node.value] = uint8(depth)
		return
	}
	assignDepths(pool, node.left, depth+1, lengths)
	assignDepths(pool, node.right, depth+1, lengths)
}

// symLen pairs a symbol with its code length, for canonical sorting.
type symLen struct {
	symbol int
	length uint8
}

// sortedSymbols returns the symbols with non-zero code length, sorted by
// (length ascending, symbol ascending) — the canonical order used both for
// the stream header and for code assignment.
func sortedSymbols(lengths *[256]uint8) []symLen {
	var syms []symLen
	for sym := 0; sym < 256; sym++ {
		if lengths[sym] > 0 {
			syms = append(syms, symLen{sym, lengths[sym]})
		}
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].length != syms[j].length {
			return syms[i].length < syms[j].length
		}
		return syms[i].symbol < syms[j].symbol
	})
	return syms
}

// assignCanonicalCodes assigns MSB-first canonical codewords to syms, in
// place: code_k = code_{k-1}+1 for equal length, or
// (code_{k-1}+1)<<delta when the length grows by delta.
func assignCanonicalCodes(syms []symLen, codes *[256]uint32) {
	if len(syms) == 0 {
		return
	}
	code := uint32(0)
	prevLen := syms[0].length
	for i, s := range syms {
		if i > 0 {
			code++
			if s.length > prevLen {
				code <<= s.length - prevLen
			}
		}
		codes[s.symbol] = code
		prevLen = s.length
	}
}

// buildCodeTable builds the full canonical code table (lengths + codes) for
// a byte histogram.
func buildCodeTable(histogram [256]uint32) *codeTable {
	t := &codeTable{}
	buildCodeLengths(histogram, &t.lengths)
	syms := sortedSymbols(&t.lengths)
	assignCanonicalCodes(syms, &t.codes)
	return t
}

// decodeTables rebuilds the per-length minCode/maxCode/offset mapping a
// decoder needs from the canonical (symbol, length) pairs read off the
// stream header.
type decodeTables struct {
	symbols []byte // sorted by (length, symbol), the canonical order
	minCode [codeLengthLimit + 1]int32
	maxCode [codeLengthLimit + 1]int32 // -1 means absent
	offset  [codeLengthLimit + 1]int
}

func buildDecodeTables(entries []headerEntry) *decodeTables {
	// entries is already in canonical (length asc, symbol asc) order, as
	// written by the encoder and consumed verbatim by the decoder.
	dt := &decodeTables{symbols: make([]byte, len(entries))}
	for i := range dt.maxCode {
		dt.maxCode[i] = -1
	}

	code := int32(0)
	prevLen := uint8(0)
	if len(entries) > 0 {
		prevLen = entries[0].length
	}
	for i, e := range entries {
		dt.symbols[i] = e.symbol
		if i > 0 {
			code++
			if e.length > prevLen {
				code <<= e.length - prevLen
			}
		}
		if dt.maxCode[e.length] == -1 {
			dt.minCode[e.length] = code
			dt.offset[e.length] = i
		}
		dt.maxCode[e.length] = code
		prevLen = e.length
	}
	return dt
}

type headerEntry struct {
	symbol byte
	length uint8
}
