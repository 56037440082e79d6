// Package node runs the proposal-and-finalize workflow of a GCL node.
//
// Submit takes a batch of transactions and a proposer identity. Under the
// ledger's write lock it reads the tail, proposes the next block, collects the
// validator signatures and ratifies them. A block that reaches quorum is
// appended; otherwise Submit returns a consensus.QuorumErr and the ledger is
// unchanged.
//
// Queries (GetBlock, GetProof, Verify) only take the ledger's read lock and
// can run concurrently with each other.
package node
