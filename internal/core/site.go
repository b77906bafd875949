package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"github.com/julien-sobczak/the-noteweaver/pkg/console"
	"github.com/julien-sobczak/the-noteweaver/pkg/filesystem"
	cp "github.com/otiai10/copy"
	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BuildResult summarizes a generated site.
type BuildResult struct {
	Notes    int
	Entities int
	Warnings int
	Errors   int
	// Total size of the target directory in bytes
	Size int64
}

func (b BuildResult) String() string {
	return fmt.Sprintf("%d notes, %d entities (%s), %d warnings, %d errors",
		b.Notes, b.Entities, humanize.Bytes(uint64(b.Size)), b.Warnings, b.Errors)
}

// SiteEntry is a line of the site index (index.json).
type SiteEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path,omitempty"`
	Error bool   `json:"error,omitempty"`
}

// WriteSite writes a page per published note and per virtual entity,
// then copies the files and static directories.
func (r *Runtime) WriteSite(out io.Writer) (*BuildResult, error) {
	target := r.config.TargetDirectory()
	if err := os.MkdirAll(target, os.ModePerm); err != nil {
		return nil, err
	}

	result := &BuildResult{}
	var entries []SiteEntry

	var published []*Note
	for _, note := range r.notes {
		if !note.Hidden {
			published = append(published, note)
		}
	}
	progress := console.NewProgress(len(published), console.ToWriter(out))
	for _, note := range published {
		progress.Step("Writing " + note.Path)
		for _, message := range note.Messages {
			if strings.HasPrefix(message, "error:") {
				result.Errors++
			} else {
				result.Warnings++
			}
		}
		entries = append(entries, SiteEntry{ID: note.ID, Title: note.Title, Path: note.Path, Error: note.Error})
		if note.Error {
			continue
		}
		if err := writePage(filepath.Join(target, note.ID+".html"), note.Title, note.HTML); err != nil {
			return nil, err
		}
		result.Notes++
	}

	virtuals := r.VirtualEntities()
	ids := make([]string, 0, len(virtuals))
	for id := range virtuals {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		entity := virtuals[id]
		if err := writePage(filepath.Join(target, id+".html"), entityLabel(entity), r.renderEntity(id, entity)); err != nil {
			return nil, err
		}
		entries = append(entries, SiteEntry{ID: id, Title: entityLabel(entity)})
		result.Entities++
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(target, "index.json"), data, 0644); err != nil {
		return nil, err
	}

	if err := r.copyAssets(target); err != nil {
		return nil, err
	}

	size, err := filesystem.DirSize(target)
	if err != nil {
		return nil, err
	}
	result.Size = size
	progress.Done("Wrote " + result.String())
	return result, nil
}

func (r *Runtime) copyAssets(target string) error {
	files := r.config.FilesDirectory()
	if _, err := filesystem.Stat(files); err == nil {
		if err := cp.Copy(files, filepath.Join(target, "files")); err != nil {
			return fmt.Errorf("unable to copy files: %w", err)
		}
	}
	for _, dir := range r.config.ConfigFile.Build.StaticDirs {
		src := filepath.Join(r.config.RootDirectory, dir)
		if err := cp.Copy(src, filepath.Join(target, filepath.Base(dir))); err != nil {
			return fmt.Errorf("unable to copy static directory %q: %w", dir, err)
		}
	}
	return nil
}

// renderEntity renders the page of an entity without a note.
func (r *Runtime) renderEntity(id string, entity *graph.Node) *html.Node {
	wrapper := markup.Element(atom.Div, "id", id, "class", "virtual-entity")
	title := markup.Element(atom.H1)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: entityLabel(entity)})
	wrapper.AppendChild(title)

	renderer := markup.NewRenderer(markup.NopResolver{}, r.config.ConfigFile.RenderOptions()...)
	var notes []string
	for _, backlink := range entity.Attribute(graph.PredicateBacklink) {
		if source := backlink.First(graph.PredicateTarget); source != nil {
			if note := r.byEntity[source]; note != nil && note.IsPublished() && !slices.Contains(notes, note.ID) {
				notes = append(notes, note.ID)
			}
		}
	}
	if len(notes) > 0 {
		list := markup.Element(atom.Ul, "class", "backlinks")
		for _, id := range notes {
			note := r.byID[id]
			item := markup.Element(atom.Li)
			item.AppendChild(renderer.NoteLink(markup.Target{NoteID: note.ID}, note.Title))
			list.AppendChild(item)
		}
		wrapper.AppendChild(list)
	}

	pre := markup.Element(atom.Pre, "class", "entity-data")
	pre.AppendChild(&html.Node{Type: html.TextNode, Data: strings.TrimSpace(graph.Canonical(entity))})
	wrapper.AppendChild(pre)
	return wrapper
}

func writePage(path string, title string, content *html.Node) error {
	head := markup.Element(atom.Head)
	head.AppendChild(markup.Element(atom.Meta, "charset", "utf-8"))
	titleNode := markup.Element(atom.Title)
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(titleNode)

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>")
	sb.WriteString(markup.Render(head))
	sb.WriteString("<body>")
	if content != nil {
		sb.WriteString(markup.Render(content))
	}
	sb.WriteString("</body></html>\n")

	data := sb.String()
	return os.WriteFile(path, []byte(data), 0644)
}
