// Command pqbench serves the post-quantum handshake benchmark dashboard
// and runs headless benchmarks from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pqbench",
		Short: "Post-quantum handshake benchmark",
		Long: `pqbench compares simulated TLS-style handshakes across classical
(ECDHE + ECDSA), post-quantum (Kyber768 + ML-DSA-65), and hybrid key
exchange modes, measuring handshake latency and key and signature sizes.

Run "pqbench serve" to start the web dashboard, or "pqbench bench" for a
one-shot benchmark in the terminal.`,
	}

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewBenchCmd())
	rootCmd.AddCommand(NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
