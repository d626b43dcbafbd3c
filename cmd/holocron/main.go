// Command holocron searches the Star Wars API for characters and keeps a local
// cache of every search.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/rshade/holocron/internal/cli"
	"github.com/rshade/holocron/pkg/version"
)

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree. fang prints the error itself.
func run(ctx context.Context) error {
	ver := version.GetVersion()
	return fang.Execute(ctx, cli.NewRootCmd(ver), fang.WithVersion(ver))
}
