// Package keys implements the secp256k1 ECDSA keys that validators may use to
// sign block headers instead of the default deterministic hash signatures.
//
// Private keys are stored one per file as a raw hex dump of D. Public keys are
// published in validators.json in uncompressed hex form.
package keys
