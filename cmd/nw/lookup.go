package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julien-sobczak/the-noteweaver/internal/core"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/spf13/cobra"
)

var lookupType string

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func init() {
	lookupCmd.Flags().StringVarP(&lookupType, "type", "t", "", "list entities of a given type")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [<id or title>]",
	Short: "Show entities",
	Long:  `Print an entity of the graph by identifier, name or note title, or all entities of a type.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 1 {
			fmt.Println("Too many arguments. You can only have one which must be an identifier or a title")
			os.Exit(1)
		}
		if len(args) == 0 && lookupType == "" {
			fmt.Println("Missing argument. Use an identifier, a title or the --type flag")
			os.Exit(1)
		}

		r := LoadRuntime()
		var entities []*graph.Node
		if lookupType != "" {
			entities = r.Graph().EntitiesOfType(lookupType)
		} else {
			entities = FindEntities(r, args[0])
		}
		if len(entities) == 0 {
			fmt.Fprintln(os.Stderr, "No entity found")
			os.Exit(1)
		}
		for _, entity := range entities {
			fmt.Println(FormatEntity(r, entity))
		}
	},
}

// FindEntities returns the entities matching an identifier, a note title or a name.
func FindEntities(r *core.Runtime, ref string) []*graph.Node {
	if node := r.Graph().Lookup(ref); node != nil && node.Type == graph.Object {
		return []*graph.Node{node}
	}
	if note := r.NoteByTitle(ref); note != nil && note.Entity != nil {
		return []*graph.Node{note.Entity}
	}
	return r.Graph().FindByName(ref)
}

// FormatEntity prints the header and the canonical content of an entity.
func FormatEntity(r *core.Runtime, entity *graph.Node) string {
	var sb strings.Builder
	label := entity.ID
	if label == "" {
		label = entity.Name()
	}
	sb.WriteString(headerStyle.Render(label))
	if types := entity.Types(); len(types) > 0 {
		sb.WriteString(" ")
		sb.WriteString(mutedStyle.Render("(" + strings.Join(types, ", ") + ")"))
	}
	if note := r.NoteOf(entity); note != nil {
		sb.WriteString(" ")
		sb.WriteString(mutedStyle.Render(note.Path))
		if note.Error {
			sb.WriteString(" ")
			sb.WriteString(errorStyle.Render("error"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(graph.Canonical(entity))
	return sb.String()
}
