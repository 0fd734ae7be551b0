// Command bridgegen generates Go bridge bindings from SDK function
// declarations.
//
//	bridgegen generate -i indy.yaml -o indy_bridge.go [--manifest exports.yaml]
//	bridgegen check -i indy.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
