package main

import (
	"fmt"

	"github.com/spf13/cobra"

	voltwiz "github.com/voltwiz/voltwiz"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of voltwiz",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voltwiz version %s\n", voltwiz.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
