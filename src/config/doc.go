// Package config defines the configuration for a GCL node.
//
// Regardless of how GCL is started, directly from Go code or as a standalone
// process from the command line, it uses the Config object defined in this
// package to store and forward configuration options. On top of these
// configuration options, GCL relies on a data directory, defined by
// Config.DataDir, where it expects to find a few additional files:
//
//  gcl.toml // (optional) configuration file read by the gcl command.
//  validators.json // (optional) a JSON list of {"id", "publicKey"} validators.
//  keys/<id> // (ecdsa signer) raw private key of a validator (cf. gcl keygen).
//  badger_db/ // (store) the block database.
package config
