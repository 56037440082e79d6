// Package gcl assembles a GCL node from a config.Config: validator set,
// signer, block store, ledger, node and HTTP service.
//
//	engine := gcl.NewGCL(conf)
//	if err := engine.Init(); err != nil {
//		...
//	}
//	defer engine.Close()
//	err := engine.Run(ctx)
package gcl
