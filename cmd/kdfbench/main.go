package main

import (
	"fmt"
	"os"

	"github.com/kdfbench/kdfbench/internal/cli"
	"github.com/kdfbench/kdfbench/internal/util"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", r)
			os.Exit(util.ExitError)
		}
	}()

	if err := cli.Execute(); err != nil {
		util.HandleError(err, "")
	}
}
