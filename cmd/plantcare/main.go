// Command plantcare is the houseplant care journal CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/plantcare/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
