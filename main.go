package main

import (
	"github.com/avikmasanta/urlshortener/cmd"

	// Subcommands register themselves with the root command via init().
	_ "github.com/avikmasanta/urlshortener/cmd/cli"
	_ "github.com/avikmasanta/urlshortener/cmd/server"
)

func main() {
	cmd.Execute()
}
