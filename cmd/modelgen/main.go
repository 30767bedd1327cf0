// Command modelgen generates DNest4 model classes from YAML model
// descriptions and inspects the numeric text files used with them.
package main

import (
	"context"
	"os"

	"goa.design/clue/log"
)

func main() {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(),
		log.WithFormat(format),
		log.WithDisableBuffering(func(context.Context) bool { return true }))

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error(ctx, err, log.KV{K: "msg", V: "modelgen failed"})
		os.Exit(1)
	}
}
