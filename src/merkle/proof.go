package merkle

import (
	"fmt"
)

// Proof is an inclusion proof. SiblingHashes are ordered from the root level
// down to the leaf level.
type Proof struct {
	SiblingHashes []string `json:"siblingHashes"`
	LeafIndex     int      `json:"leafIndex"`
}

// ErrEmptyTree is returned when asking an empty tree for a proof.
var ErrEmptyTree = fmt.Errorf("merkle: empty tree")

// IndexErr is returned for a leaf index outside [0, leaves).
type IndexErr struct {
	Index  int
	Leaves int
}

func (e IndexErr) Error() string {
	return fmt.Sprintf("merkle: leaf index %d out of range [0, %d)", e.Index, e.Leaves)
}

// Proof walks from the root towards leaf leafIndex, reading the bits of
// leafIndex from the most significant level down, and collects the hash of
// the sibling at every level. If a node on the path is missing a child the
// walk stops and the proof gathered so far is returned.
func (t *Tree) Proof(leafIndex int) (Proof, error) {
	if t == nil {
		return Proof{}, ErrEmptyTree
	}
	if leafIndex < 0 || leafIndex >= t.leaves {
		return Proof{}, IndexErr{Index: leafIndex, Leaves: t.leaves}
	}

	proof := Proof{
		SiblingHashes: []string{},
		LeafIndex:     leafIndex,
	}

	current := t.nodes[t.root]
	for level := t.Depth() - 1; level >= 0 && !current.IsLeaf(); level-- {
		next, sibling := current.Left, current.Right
		if (leafIndex>>uint(level))&1 == 1 {
			next, sibling = current.Right, current.Left
		}
		if next == none {
			break
		}
		if sibling != none {
			proof.SiblingHashes = append(proof.SiblingHashes, t.nodes[sibling].Hash)
		}
		current = t.nodes[next]
	}

	return proof, nil
}

// VerifyProof recomputes the root from leaf and proof and compares it with
// expectedRoot. Siblings are consumed from the deepest level up; bit k of
// LeafIndex says whether the running hash is a right (1) or left (0) child at
// step k.
func VerifyProof(leaf string, proof Proof, expectedRoot string) bool {
	if proof.LeafIndex < 0 {
		return false
	}

	current := leaf
	index := proof.LeafIndex
	for i := len(proof.SiblingHashes) - 1; i >= 0; i-- {
		sibling := proof.SiblingHashes[i]
		if index&1 == 1 {
			current = Combine(sibling, current)
		} else {
			current = Combine(current, sibling)
		}
		index >>= 1
	}

	// leftover bits mean the index does not fit a tree this deep
	return index == 0 && current == expectedRoot
}
