package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a note in the browser",
	Long:  `Open the page generated by the last build for a note.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := CheckConfig()
		index, err := core.OpenIndex(config.IndexPath())
		exitOnError(err)
		defer index.Close()

		note, err := index.Find(args[0])
		exitOnError(err)
		if note == nil {
			fmt.Fprintf(os.Stderr, "No note %q found. Did you run nw build?\n", args[0])
			os.Exit(1)
		}

		path := filepath.Join(config.TargetDirectory(), note.ID+".html")
		err = browser.OpenFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to browse to %s: %v\n", path, err)
			os.Exit(1)
		}
	},
}
