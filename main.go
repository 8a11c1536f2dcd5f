package main

import (
	"os"

	"backup-tool/cli"
)

// ENTRY POINT
func main() {
	os.Exit(cli.Execute())
}
