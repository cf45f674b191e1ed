package main

import (
	"fmt"
	"os"
)

// Version is overridden at link time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "autojinja:", err)
		os.Exit(1)
	}
}
