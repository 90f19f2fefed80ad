// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import "container/heap"

// TableType identifies the shape of a code table.
type TableType uint8

const (
	// Plain is a table built directly from a histogram, every code at
	// most 16 bits long.
	Plain TableType = iota
	// Long is a transient result: the trial build produced at least one
	// code longer than 16 bits, or the histogram uses symbol 255. Only
	// CodeLen is populated; the caller
	// must rebuild with the escape mechanism.
	Long
	// Escaped is a table in which symbol 255 and every symbol that
	// would otherwise need more than 16 bits share one escape code,
	// followed by an 8-bit literal.
	Escaped
)

// escapeSymbol is the sentinel value reserved to signal an escaped
// literal follows.
const escapeSymbol = 255

// Scheme is a complete canonical Huffman code table for one stream.
type Scheme struct {
	Type    TableType
	CodeLen [256]uint8
	Code    [256]uint32

	// EscapeLen and EscapeCode are the length and value of the shared
	// code for the collapsed symbol set, valid only when Type == Escaped.
	EscapeLen  uint8
	EscapeCode uint32

	lookup []lookupEntry
}

type lookupEntry struct {
	sym byte
	len uint8
}

// node is a Huffman tree node. Leaves carry one or more symbols: more
// than one only for the virtual leaf representing the collapsed escape
// set built by BuildEscaped.
type node struct {
	count   int
	seq     int
	symbols []int
	left    *node
	right   *node
}

func (n *node) isLeaf() bool { return n.left == nil && n.right == nil }

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	// Stable tie-break: the node inserted earlier (lower seq) sorts
	// first, so construction is deterministic across runs.
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// builder assigns strictly increasing sequence numbers to every node,
// leaves and internal nodes alike, so insertion order is preserved as
// the heap's tie-break regardless of how many internal nodes form
// around it later.
type builder struct {
	seq int
}

func (b *builder) leaf(count int, symbols ...int) *node {
	n := &node{count: count, seq: b.seq, symbols: append([]int(nil), symbols...)}
	b.seq++
	return n
}

func (b *builder) internal(a, c *node) *node {
	n := &node{count: a.count + c.count, seq: b.seq, left: a, right: c}
	b.seq++
	return n
}

// tree repeatedly merges the two lowest-count nodes in leaves until one
// root remains.
func (b *builder) tree(leaves []*node) *node {
	h := nodeHeap(append([]*node(nil), leaves...))
	heap.Init(&h)
	for h.Len() > 1 {
		x := heap.Pop(&h).(*node)
		y := heap.Pop(&h).(*node)
		heap.Push(&h, b.internal(x, y))
	}
	return h[0]
}

// assignCodes walks the tree assigning a 0 bit to every left branch and
// a 1 bit to every right branch, recording the resulting code and its
// length for every symbol reachable from root. It reports the deepest
// code length found.
func assignCodes(root *node) (codeLen [256]uint8, code [256]uint32, maxLen uint8) {
	if root.isLeaf() {
		// Degenerate single-symbol alphabet: assign a single 0 bit so
		// the stream still has a well-defined code to emit.
		for _, s := range root.symbols {
			codeLen[s] = 1
		}
		maxLen = 1
		return
	}
	var walk func(n *node, c uint32, depth uint8)
	walk = func(n *node, c uint32, depth uint8) {
		if n.isLeaf() {
			for _, s := range n.symbols {
				codeLen[s] = depth
				code[s] = c
			}
			if depth > maxLen {
				maxLen = depth
			}
			return
		}
		walk(n.left, c<<1, depth+1)
		walk(n.right, c<<1|1, depth+1)
	}
	walk(root, 0, 0)
	return
}

// Build performs the trial construction pass: a plain Huffman tree over
// every symbol present in hist. If every resulting code fits in 16
// bits and hist has no count for symbol 255, it returns a ready-to-use
// Plain scheme. Otherwise it returns a
// Long scheme carrying only the trial code lengths; the caller must
// pass that scheme to BuildEscaped to complete construction.
func Build(hist Histogram) *Scheme {
	b := &builder{}
	var leaves []*node
	for s := 0; s < 256; s++ {
		if hist[s] > 0 {
			leaves = append(leaves, b.leaf(hist[s], s))
		}
	}
	if len(leaves) == 0 {
		return &Scheme{Type: Plain}
	}
	root := b.tree(leaves)
	codeLen, code, maxLen := assignCodes(root)
	// Symbol 255 is always reserved as the escape marker once escapes are
	// in use, so a histogram that ever uses it cannot stay plain: treat
	// its presence the same as a code that exceeded the cap, forcing the
	// escaped rebuild even when the naive tree happens to be shallow.
	if maxLen <= 16 && hist[escapeSymbol] == 0 {
		s := &Scheme{Type: Plain, CodeLen: codeLen, Code: code}
		s.buildLookup()
		return s
	}
	return &Scheme{Type: Long, CodeLen: codeLen}
}

// BuildEscaped rebuilds the tree after collapsing the reserved sentinel
// 255 and every symbol that needed more than 16 bits in trial (the
// result of Build) into a single virtual leaf, so every remaining code
// fits in 16 bits. It returns an error if even this rebuilt tree
// exceeds the cap, which can only happen if the collapsed set itself is
// so rare that it sinks to an excessive depth; this is a pathological
// histogram, not an expected case.
func BuildEscaped(hist Histogram, trial *Scheme) (*Scheme, error) {
	collapse := map[int]bool{escapeSymbol: true}
	for s := 0; s < 256; s++ {
		if trial.CodeLen[s] > 16 {
			collapse[s] = true
		}
	}

	b := &builder{}
	var leaves []*node
	var virtualSymbols []int
	virtualCount := 0
	for s := 0; s < 256; s++ {
		if collapse[s] {
			virtualSymbols = append(virtualSymbols, s)
			virtualCount += hist[s]
			continue
		}
		if hist[s] > 0 {
			leaves = append(leaves, b.leaf(hist[s], s))
		}
	}
	leaves = append(leaves, b.leaf(virtualCount, virtualSymbols...))

	root := b.tree(leaves)
	codeLen, code, maxLen := assignCodes(root)
	if maxLen > 16 {
		return nil, errEscapeOverflow
	}
	s := &Scheme{
		Type:       Escaped,
		CodeLen:    codeLen,
		Code:       code,
		EscapeLen:  codeLen[escapeSymbol],
		EscapeCode: code[escapeSymbol],
	}
	s.buildLookup()
	return s, nil
}

// BuildScheme runs the full two-pass construction described for a
// single stream: a trial build, and, only if that trial produced a code
// longer than 16 bits or hist uses symbol 255, an escaped rebuild.
func BuildScheme(hist Histogram) (*Scheme, error) {
	trial := Build(hist)
	if trial.Type != Long {
		return trial, nil
	}
	return BuildEscaped(hist, trial)
}

// buildLookup populates the 16-bit lookahead table used by Decode. Every
// symbol with a nonzero code length gets an entry at every index whose
// top bits match its code, except collapsed symbols other than 255
// itself: they share a code with 255 and are represented solely by it,
// since the literal byte that follows the escape code is what actually
// identifies them.
func (s *Scheme) buildLookup() {
	s.lookup = make([]lookupEntry, 1<<16)
	for sym := 0; sym < 256; sym++ {
		l := s.CodeLen[sym]
		if l == 0 {
			continue
		}
		if s.Type == Escaped && sym != escapeSymbol && l == s.EscapeLen && s.Code[sym] == s.EscapeCode {
			continue
		}
		shift := uint(16 - l)
		base := s.Code[sym] << shift
		n := uint32(1) << shift
		for i := uint32(0); i < n; i++ {
			s.lookup[base+i] = lookupEntry{sym: byte(sym), len: l}
		}
	}
}
