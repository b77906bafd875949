package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	godiffpatch "github.com/sourcegraph/go-diff-patch"
	"github.com/spf13/cobra"
)

var canonDiff bool
var canonTurtle bool
var canonWrite bool

func init() {
	canonCmd.Flags().BoolVarP(&canonDiff, "diff", "d", false, "show the changes instead of the canonical form")
	canonCmd.Flags().BoolVarP(&canonTurtle, "ttl", "", false, "output Turtle instead of the Graph Text Format")
	canonCmd.Flags().BoolVarP(&canonWrite, "write", "w", false, "rewrite files in canonical form")
	rootCmd.AddCommand(canonCmd)
}

var canonCmd = &cobra.Command{
	Use:   "canon [<file>...]",
	Short: "Format graph files",
	Long:  `Print graph text files in canonical form, or the graph of the whole collection without arguments.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			g := LoadRuntime().Graph()
			if canonTurtle {
				fmt.Print(g.Turtle())
			} else {
				fmt.Print(g.Canonical())
			}
			return
		}

		for _, path := range args {
			content, err := os.ReadFile(path)
			exitOnError(err)
			g := graph.New()
			doc, err := g.Parse(string(content))
			if err != nil {
				exitOnError(fmt.Errorf("%s: %w", path, err))
			}

			canonical := graph.Canonical(doc)
			switch {
			case canonTurtle:
				fmt.Print(g.Turtle())
			case canonDiff:
				printDiff(CanonicalDiff(path, string(content), canonical))
			case canonWrite:
				if canonical != string(content) {
					exitOnError(os.WriteFile(path, []byte(canonical), 0644))
					fmt.Println(path)
				}
			default:
				fmt.Print(canonical)
			}
		}
	},
}

// CanonicalDiff returns the unified diff between a file and its canonical form.
// The diff is empty when the file is already canonical.
func CanonicalDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	return godiffpatch.GeneratePatch(path, before, after)
}

func printDiff(diff string) {
	if diff == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			color.Red("%s", line)
		} else if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			color.Green("%s", line)
		} else {
			fmt.Println(line)
		}
	}
}
