package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julien-sobczak/the-noteweaver/internal/vault"
	"github.com/spf13/cobra"
)

var importLabel string

func init() {
	importCmd.Flags().StringVarP(&importLabel, "label", "l", "", "label to include in the file name")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import files",
	Long:  `Copy files into the files directory under a canonical name and print the tag to reference them.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := CheckConfig()
		exitOnError(os.MkdirAll(config.FilesDirectory(), os.ModePerm))
		files, err := vault.Open(config.FilesDirectory())
		exitOnError(err)

		for _, src := range args {
			relativePath, err := files.Import(src, importLabel)
			exitOnError(err)
			name, _ := vault.ParseFilename(filepath.Base(relativePath))
			fmt.Printf("%s => \\image{%s}\n", relativePath, name.ID)
		}
	},
}
