package core

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"github.com/julien-sobczak/the-noteweaver/pkg/text"
	"golang.org/x/net/html"
)

// Note is a document of the collection.
type Note struct {
	// Identifier derived from the path (ex: "projects-todo")
	ID string
	// Path relative to the source directory
	Path  string
	Title string

	Source string
	Tree   *markup.Block
	HTML   *html.Node

	// Set when the note cannot be parsed
	Error    bool
	Messages []string

	// Graph node representing the note
	Entity *graph.Node
	// Set when the note has a private type in public mode
	Hidden bool
}

// Warnf records a warning about the note.
func (n *Note) Warnf(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	n.Messages = append(n.Messages, "warning: "+message)
	CurrentLogger().Warnf("%s: %s", n.Path, message)
}

// Errorf records an error making the note unusable.
func (n *Note) Errorf(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	n.Error = true
	n.Messages = append(n.Messages, "error: "+message)
	CurrentLogger().Errorf("%s: %s", n.Path, message)
}

// IsPublished returns if the note is part of the output.
func (n *Note) IsPublished() bool {
	return !n.Error && !n.Hidden
}

// NoteID returns the identifier of a note from its relative path.
//
//	NoteID("projects/My Todo.nw") // projects-my-todo
func NoteID(relativePath string) string {
	id := slug.Make(text.TrimExtension(relativePath))
	if !graph.IsIdentifier(id) {
		// Ex: "2023.nw"
		id = "note-" + id
	}
	return id
}

// Record is the published view of a note.
type Record struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Path    string `yaml:"path" json:"path"`
	HTML    string `yaml:"-" json:"html"`
	Error   bool   `yaml:"error,omitempty" json:"error"`
	Message string `yaml:"message,omitempty" json:"message"`
}

// Record returns the published view of the note.
func (n *Note) Record() Record {
	record := Record{
		ID:      n.ID,
		Title:   n.Title,
		Path:    n.Path,
		Error:   n.Error,
		Message: strings.Join(n.Messages, "\n"),
	}
	if n.HTML != nil {
		record.HTML = markup.Render(n.HTML)
	}
	return record
}
