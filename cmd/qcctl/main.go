package main

import (
	"context"
	"os"

	"github.com/andreyxaxa/Photo-QC/internal/cli"
	"github.com/charmbracelet/fang"
)

const version = "1.0.0"

func main() {
	root := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
