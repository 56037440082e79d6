// Package client is a Go client for the HTTP API of a GCL node.
package client
