package main

import (
	"fmt"

	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search notes",
	Long:  `Search the index of the last build for notes whose title or content contains a text.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index, err := core.OpenIndex(CheckConfig().IndexPath())
		exitOnError(err)
		defer index.Close()

		notes, err := index.Search(args[0])
		exitOnError(err)
		for _, note := range notes {
			fmt.Printf("%s %s %s\n", headerStyle.Render(note.ID), note.Title, mutedStyle.Render(note.Path))
		}
	},
}
