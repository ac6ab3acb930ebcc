package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voltwiz",
	Short: "Voltwiz is a conversational MCS-CEV configuration wizard",
	Long: `Voltwiz turns natural-language descriptions of charging scenarios into
structured configuration, walking each session through a step-by-step wizard.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "voltwiz.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().Bool("demo", false, "Use the built-in demo reasoning stub instead of a live service")
}
