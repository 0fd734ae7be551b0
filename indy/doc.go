// Package indy holds the entry points generated from indy.yaml. Each entry
// validates its arguments, dispatches the SDK symbol through a
// bridge.Runtime and settles the caller's receiver on the runtime's loop.
package indy

//go:generate go run ../cmd/bridgegen generate -i indy.yaml -o indy_bridge.go
