// Command nbformat validates, formats and archives notebook documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/nbformat/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.GetExitCode(err))
}
