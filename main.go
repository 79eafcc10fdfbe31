package main

import (
	"github.com/athomax/shorturl/cmd"

	// Subcommands register themselves with the root command.
	_ "github.com/athomax/shorturl/cmd/cli"
	_ "github.com/athomax/shorturl/cmd/server"
)

func main() {
	cmd.Execute()
}
