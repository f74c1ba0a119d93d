package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
