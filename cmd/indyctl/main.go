// Command indyctl calls SDK functions through the generated bindings.
//
//	indyctl exports
//	indyctl call abbreviate_verkey Th7MpTaRZVRYnPiabds81Y FYmoFw55GeQH7SRFa37dkx1d2dZ3zUF8ckg7wmL7ofN4
//	indyctl run wallet.yaml
package main

import (
	"context"
	"os"
	"os/signal"

	_ "github.com/indywasm/indywasm/native/nullsdk"
	_ "github.com/indywasm/indywasm/native/wasm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
