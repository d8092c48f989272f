// Package main is the headcast command.
package main

import (
	"log"
	"os"

	"github.com/headcast-ar/headcast/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
