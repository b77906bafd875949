package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  `Print the configuration of the current collection, defaults included.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := CheckConfig()
		fmt.Printf("# %s\n", config.RootDirectory)
		fmt.Print(config.String())
	},
}
