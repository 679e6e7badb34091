package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pzverkov/pqbench/pkg/version"
)

// NewVersionCmd prints the build version.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	}
}
