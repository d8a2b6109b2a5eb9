// Command firmproto inspects and exercises firmware protocol call tables.
package main

import (
	"os"

	"github.com/custodia-labs/firmproto/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
