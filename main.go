package main

import (
	"fmt"
	"os"

	waveerr "wave-portal-tui/pkg/errors"
)

// -------------------- MAIN --------------------

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(waveerr.ExitCode(err))
	}
}
