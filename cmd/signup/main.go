package main

import (
	"os"

	"github.com/nicetransit/operator-signup/cmd/signup/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
