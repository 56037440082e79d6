// Package service exposes a GCL node over HTTP.
//
//	POST /gcl/tx              finalize a block holding one transaction
//	POST /gcl/blocks          finalize a block from {"transactions", "proposer"}
//	GET  /gcl/block/{height}  block at a 1-based height
//	GET  /gcl/proof/{txid}    inclusion proof of a transaction
//	GET  /gcl/validators      validator set
//	GET  /gcl/stats           node summary
//	GET  /gcl/verify          full chain audit
//	GET  /metrics             prometheus metrics
//
// Submissions that do not reach quorum answer 409 Conflict. Unknown heights
// and transaction ids answer 404.
package service
