// Package main is the entry point for the simregress CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/simregress/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
