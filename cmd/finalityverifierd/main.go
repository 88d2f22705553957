package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/babylonchain/finality-verifier/cmd/finalityverifierd/daemon"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[finalityverifierd] %v\n", err)
	os.Exit(1)
}

func main() {
	app := cli.NewApp()
	app.Name = "finalityverifierd"
	app.Usage = "Finality verification daemon (finalityverifierd)."
	app.Commands = append(app.Commands, daemon.InitCommand, daemon.StartCommand, daemon.InspectCommand)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
