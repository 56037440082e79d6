package merkle

import (
	"github.com/mosaicnetworks/gcl/src/crypto"
)

const none = -1

// Node is a tree node. Left and Right are arena indexes, or -1 for a leaf.
type Node struct {
	Hash  string
	Left  int
	Right int
}

// IsLeaf ...
func (n Node) IsLeaf() bool {
	return n.Left == none && n.Right == none
}

// Tree is a Merkle tree over an ordered list of leaf digests. The zero leaves
// case is represented by a nil *Tree, whose Root is the empty string.
type Tree struct {
	nodes  []Node
	root   int
	leaves int
}

// Combine returns the parent digest of left and right.
func Combine(left, right string) string {
	return crypto.SimpleHashFromTwoHashes(left, right)
}

// NewTree builds a tree over leaves, in order. It returns nil when leaves is
// empty.
func NewTree(leaves []string) *Tree {
	if len(leaves) == 0 {
		return nil
	}

	t := &Tree{
		nodes:  make([]Node, 0, 2*len(leaves)),
		leaves: len(leaves),
	}

	level := make([]int, len(leaves))
	for i, h := range leaves {
		level[i] = t.add(Node{Hash: h, Left: none, Right: none})
	}

	for len(level) > 1 {
		next := make([]int, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			var right int
			if i+1 < len(level) {
				right = level[i+1]
			} else {
				right = t.clone(left)
			}
			parent := Node{
				Hash:  Combine(t.nodes[left].Hash, t.nodes[right].Hash),
				Left:  left,
				Right: right,
			}
			next = append(next, t.add(parent))
		}
		level = next
	}

	t.root = level[0]

	return t
}

func (t *Tree) add(n Node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// clone deep-copies the subtree rooted at i and returns the index of the copy.
func (t *Tree) clone(i int) int {
	n := t.nodes[i]
	if n.IsLeaf() {
		return t.add(n)
	}
	left := t.clone(n.Left)
	right := t.clone(n.Right)
	return t.add(Node{Hash: n.Hash, Left: left, Right: right})
}

// Root returns the root digest, or "" for an empty tree.
func (t *Tree) Root() string {
	if t == nil {
		return ""
	}
	return t.nodes[t.root].Hash
}

// RootNode returns the root node. ok is false for an empty tree.
func (t *Tree) RootNode() (n Node, ok bool) {
	if t == nil {
		return n, false
	}
	return t.nodes[t.root], true
}

// Node returns the node stored at arena index i.
func (t *Tree) Node(i int) (n Node, ok bool) {
	if t == nil || i < 0 || i >= len(t.nodes) {
		return n, false
	}
	return t.nodes[i], true
}

// Leaves returns the number of leaves the tree was built from, duplicates
// excluded.
func (t *Tree) Leaves() int {
	if t == nil {
		return 0
	}
	return t.leaves
}

// Depth returns the number of edges between the root and any leaf. Every leaf
// sits at the same depth because odd levels are padded.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	depth := 0
	for n := t.nodes[t.root]; n.Left != none; n = t.nodes[n.Left] {
		depth++
	}
	return depth
}
