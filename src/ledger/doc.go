// Package ledger implements the append-only chain of finalized blocks.
//
// Blocks
//
// A Block is a Header plus an ordered list of Transactions. The header
// commits to the transactions through a Merkle root and to the previous block
// through the hash of the previous header. A block's identity is the hash of
// its header; it is recomputed on every call so that any change to a header
// field shows up as a different identity.
//
// Header hashes cover prevHash, merkleRoot, proposer and timestamp but not
// height. Two headers that differ only by height hash the same.
//
// Store
//
// The ledger keeps its blocks in a Store. InmemStore holds them in a slice.
// BadgerStore persists them to a badger key-value database, with an LRU cache
// in front, and can be reopened to rebuild a ledger after a restart.
//
// Concurrency
//
// Ledger guards its store with a reader-writer lock. Reads run concurrently.
// Append and Commit hold the write lock for the whole read-modify-write, so
// heights stay sequential and every block links to its predecessor.
package ledger
