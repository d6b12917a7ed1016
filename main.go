package main

import (
	"fmt"
	"os"

	"github.com/calendee/expo-cli/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the expo-cli command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
