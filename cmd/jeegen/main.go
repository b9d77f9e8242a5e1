package main

import (
	"log"
	"os"

	"github.com/CognitoIQ/jeegen/javagen"
)

func main() {
	log.SetFlags(0)
	var cfg javagen.Config
	cfg.Option(javagen.DefaultOptions...)
	cfg.Option(javagen.LogOutput(log.New(os.Stderr, "", 0)))

	if err := cfg.GenCLI(os.Args[1:]...); err != nil {
		os.Exit(1)
	}
}
