package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"github.com/spf13/cobra"
)

var parseDump bool

func init() {
	parseCmd.Flags().BoolVarP(&parseDump, "dump", "", false, "dump the internal structure of blocks")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Show the block tree of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		content, err := os.ReadFile(path)
		exitOnError(err)

		g := graph.New()
		doc, err := markup.ParseNote(g, g.GetOrCreate(core.NoteID(path), graph.Object), string(content))
		exitOnError(err)

		if parseDump {
			config := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 10}
			config.Dump(doc.Root)
		} else {
			fmt.Print(doc.Root.Outline())
		}
		for _, warning := range doc.Warnings {
			core.CurrentLogger().Warnf("%s: %s", path, warning)
		}
	},
}
