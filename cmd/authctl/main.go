package main

import (
	"os"

	"github.com/dtroode/storeauth/cmd/authctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
