//go:build !(linux || darwin)

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "the console host needs a termios terminal, use the desktop host instead")
	os.Exit(1)
}
