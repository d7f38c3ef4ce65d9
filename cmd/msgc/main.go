package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"msgc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "msgc",
	Short: "Message layout planner",
	Long:  `msgc plans flat in-memory layouts (field offsets, hasbits, oneof slots) for message schemas`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
