// typingtips shows a piece of text to type with its input-method code hints: multi-character words are
// grouped and annotated with their word code, and the code to type next is shown as a badge.
//
// Usage:
//
//	typingtips show "忽如一夜春风来" --typed 2
//	typingtips hint --typed 3
//	typingtips fetch "千树万树梨花开"
package main

import (
	"context"
	"os"
	"os/signal"

	"k8s.io/klog/v2"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
