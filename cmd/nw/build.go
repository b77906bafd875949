package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/julien-sobczak/the-noteweaver/pkg/text"
	"github.com/spf13/cobra"
)

var buildPublic bool
var buildTarget string
var buildContentWidth int
var buildStrict bool

func init() {
	buildCmd.Flags().BoolVarP(&buildPublic, "public", "p", false, "exclude notes with a private type")
	buildCmd.Flags().StringVarP(&buildTarget, "target", "o", "", "directory containing the generated site")
	buildCmd.Flags().IntVarP(&buildContentWidth, "content-width", "", 0, "width of images in pixels")
	buildCmd.Flags().BoolVarP(&buildStrict, "strict", "", false, "exit with an error when a note cannot be parsed")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build site",
	Long:  `Parse notes, write the static site and refresh the index.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := CheckConfig()
		err := config.Override(core.ConfigBuild{
			Public:       buildPublic,
			Target:       buildTarget,
			ContentWidth: buildContentWidth,
		})
		exitOnError(err)

		r := LoadRuntime()
		result, err := r.WriteSite(os.Stdout)
		exitOnError(err)

		index, err := core.OpenIndex(config.IndexPath())
		exitOnError(err)
		defer index.Close()
		exitOnError(index.Save(r.Records()))

		fmt.Print(FormatMessages(r.Notes()))
		if buildStrict && result.Errors > 0 {
			os.Exit(1)
		}
	},
}

// FormatMessages lists the warnings and errors of notes, grouped by file.
func FormatMessages(notes []*core.Note) string {
	var sb strings.Builder
	for _, note := range notes {
		if len(note.Messages) == 0 {
			continue
		}
		sb.WriteString(note.Path)
		sb.WriteString(":\n")
		var lines []string
		for _, message := range note.Messages {
			if strings.HasPrefix(message, "error:") {
				lines = append(lines, color.RedString(message))
			} else {
				lines = append(lines, color.YellowString(message))
			}
		}
		sb.WriteString(text.Indent(strings.Join(lines, "\n"), "  "))
		sb.WriteString("\n")
	}
	return sb.String()
}
