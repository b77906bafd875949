package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/julien-sobczak/the-noteweaver/pkg/oid"
	"github.com/spf13/cobra"
)

var newType string
var newDirectory string

func init() {
	newCmd.Flags().StringVarP(&newType, "type", "t", "", "type of the note entity")
	newCmd.Flags().StringVarP(&newDirectory, "dir", "d", "", "directory relative to the source directory")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := CheckConfig()
		path, err := CreateNote(filepath.Join(config.SourceDirectory(), newDirectory), args[0], newType)
		exitOnError(err)
		fmt.Println(path)
	},
}

// CreateNote writes a new note file named after its title.
func CreateNote(dir string, title string, typ string) (string, error) {
	path := filepath.Join(dir, slug.Make(title)+".nw")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("note %s already exists", path)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(NewNoteContent(title, typ, oid.New())), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// NewNoteContent returns the initial content of a note.
// Typed notes are given a unique identifier in their data header.
func NewNoteContent(title string, typ string, uid oid.OID) string {
	content := "# " + title + "\n"
	if typ != "" {
		content += fmt.Sprintf("^%s{\n  uid %q ;\n}\n", typ, uid)
	}
	return content + "\n"
}
