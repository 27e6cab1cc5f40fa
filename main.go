/*
 * relayx - interactive TCP client
 * https://github.com/Necromancer-Labs/relayx
 *
 * Client main entry point
 */

package main

import (
	"fmt"
	"os"

	"github.com/Necromancer-Labs/relayx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
