// Command rv compares the real value of currencies over time.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/realvalue/cmd"
	"github.com/google/subcommands"
)

func main() {
	// exits when invoked by the shell for completion.
	cmd.Completion().Complete("rv")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
