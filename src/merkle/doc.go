// Package merkle builds binary hash trees over ordered lists of leaf digests
// and produces and checks inclusion proofs against their roots.
//
// Leaves are paired left to right and each parent is the SHA256 of the
// concatenation of its children's hex digests. When a level has an odd number
// of nodes the last node is paired with a copy of itself. The construction is
// order sensitive: permuting the leaves changes the root.
//
// Nodes live in an arena owned by the Tree and reference their children by
// index. A duplicated node is a deep copy, so every node has exactly one
// parent and the structure has no shared or back references.
package merkle
