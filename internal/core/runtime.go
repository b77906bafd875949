package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"github.com/julien-sobczak/the-noteweaver/internal/vault"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Runtime processes a collection of notes sharing a single graph.
//
// Notes are first registered (AddNote, LoadDir) so that every title is known
// before any note is parsed. Run then executes the phases in order:
// parsing, early callbacks, link creation, rendering, late callbacks.
type Runtime struct {
	config *Config
	graph  *graph.Graph
	vault  vault.Vault
	math   MathRenderer

	notes    []*Note
	byID     map[string]*Note
	byTitle  map[string]*Note
	byEntity map[*graph.Node]*Note

	early     map[string]EarlyCallback
	late      map[string]LateCallback
	lateQueue []*lateCall

	// Identifiers of entities rendered without a note
	virtualIDs map[*graph.Node]string
	virtuals   []*graph.Node
}

// RuntimeOption customizes a runtime.
type RuntimeOption func(*Runtime)

// WithVault resolves the \image tags using the given vault.
func WithVault(v vault.Vault) RuntimeOption {
	return func(r *Runtime) {
		r.vault = v
	}
}

// WithMathRenderer overrides how the \math tags are rendered.
func WithMathRenderer(m MathRenderer) RuntimeOption {
	return func(r *Runtime) {
		r.math = m
	}
}

// NewRuntime creates a runtime with the built-in callbacks registered.
func NewRuntime(config *Config, options ...RuntimeOption) *Runtime {
	r := &Runtime{
		config:     config,
		graph:      graph.New(),
		math:       DefaultMathRenderer{},
		byID:       make(map[string]*Note),
		byTitle:    make(map[string]*Note),
		byEntity:   make(map[*graph.Node]*Note),
		early:      make(map[string]EarlyCallback),
		late:       make(map[string]LateCallback),
		virtualIDs: make(map[*graph.Node]string),
	}
	r.registerBuiltins()
	for _, option := range options {
		option(r)
	}
	return r
}

// Config returns the configuration used by the runtime.
func (r *Runtime) Config() *Config {
	return r.config
}

// Graph returns the graph shared by all notes.
func (r *Runtime) Graph() *graph.Graph {
	return r.graph
}

// Notes returns every registered note in order of registration.
func (r *Runtime) Notes() []*Note {
	return r.notes
}

// NoteByID returns the note with the given identifier or nil.
func (r *Runtime) NoteByID(id string) *Note {
	return r.byID[id]
}

// NoteByTitle returns the note with the given title or nil.
func (r *Runtime) NoteByTitle(title string) *Note {
	return r.byTitle[normalizeTitle(title)]
}

// NoteOf returns the note represented by an entity or nil.
func (r *Runtime) NoteOf(entity *graph.Node) *Note {
	return r.byEntity[entity]
}

func normalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// AddNote registers a note. The path is relative to the source directory.
func (r *Runtime) AddNote(path string, source string) *Note {
	path = filepath.ToSlash(path)
	note := &Note{
		ID:     NoteID(path),
		Path:   path,
		Source: source,
	}
	r.notes = append(r.notes, note)

	if existing, ok := r.byID[note.ID]; ok {
		note.Errorf("duplicate note identifier %q (already used by %s)", note.ID, existing.Path)
		return note
	}
	r.byID[note.ID] = note

	if title, ok := markup.ParseTitle(source); ok {
		note.Title = title
		key := normalizeTitle(title)
		if existing, ok := r.byTitle[key]; ok {
			note.Warnf("duplicate title %q (already used by %s)", title, existing.Path)
		} else {
			r.byTitle[key] = note
		}
	}

	note.Entity = r.graph.GetOrCreate(note.ID, graph.Object)
	r.byEntity[note.Entity] = note
	return note
}

// LoadDir registers every note found under a directory.
func (r *Runtime) LoadDir(root string) error {
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relativePath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relativePath == "." {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || r.config.IgnoreFile.MustExcludeFile(relativePath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !r.config.ConfigFile.SupportExtension(relativePath) {
			return nil
		}
		if r.config.IgnoreFile.MustExcludeFile(relativePath, false) {
			CurrentLogger().Debugf("Ignoring file %s", relativePath)
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read note %s: %w", relativePath, err)
		}
		CurrentLogger().Tracef("Loading note %s", relativePath)
		r.AddNote(relativePath, string(content))
		return nil
	})
}

// Run processes all registered notes.
func (r *Runtime) Run() {
	for _, note := range r.notes {
		if !note.Error {
			r.parse(note)
		}
	}
	for _, note := range r.notes {
		if !note.Error {
			r.expand(note, note.Tree)
		}
	}
	for _, note := range r.notes {
		if !note.Error {
			r.link(note)
		}
	}
	for _, note := range r.notes {
		if !note.Error {
			r.render(note)
		}
	}
	r.runLateCallbacks()
}

func (r *Runtime) parse(note *Note) {
	CurrentLogger().Debugf("Parsing note %s", note.Path)
	sp := r.graph.Savepoint()
	doc, err := markup.ParseNote(r.graph, note.Entity, note.Source, r.parseOptions()...)
	if err != nil {
		r.graph.Rollback(sp)
		note.Errorf("%v", err)
		return
	}
	r.graph.Release(sp)

	note.Title = doc.Title
	note.Tree = doc.Root
	for _, warning := range doc.Warnings {
		note.Warnf("%s", warning)
	}

	if r.config.ConfigFile.Build.Public {
		for _, typ := range note.Entity.Types() {
			if r.config.ConfigFile.IsPrivateType(typ) {
				note.Hidden = true
			}
		}
	}
}

func (r *Runtime) parseOptions() []markup.Option {
	return []markup.Option{markup.WithGraphOptions(r.config.ConfigFile.GraphOptions()...)}
}

func (r *Runtime) render(note *Note) {
	renderer := r.renderer(note)
	note.HTML = renderer.RenderNote(note.ID, note.Tree)
}

func (r *Runtime) renderer(note *Note) *markup.Renderer {
	return markup.NewRenderer(&noteResolver{runtime: r, note: note}, r.config.ConfigFile.RenderOptions()...)
}

// Records returns the published view of every note.
// Hidden notes are omitted.
func (r *Runtime) Records() []Record {
	var records []Record
	for _, note := range r.notes {
		if note.Hidden {
			continue
		}
		records = append(records, note.Record())
	}
	return records
}

// VirtualEntities returns the entities rendered without a note, indexed by their identifier.
func (r *Runtime) VirtualEntities() map[string]*graph.Node {
	results := make(map[string]*graph.Node)
	for entity, id := range r.virtualIDs {
		results[id] = entity
	}
	return results
}

// noteResolver resolves links and files while rendering a note.
type noteResolver struct {
	runtime *Runtime
	note    *Note
}

func (n *noteResolver) ResolveLink(link markup.Link) (markup.Target, bool) {
	entity, ok := n.runtime.resolve(link, false)
	if !ok {
		return markup.Target{}, false
	}
	if target := n.runtime.byEntity[entity]; target != nil {
		if target.Error {
			return markup.Target{}, false
		}
		if target.Hidden && !n.note.Hidden {
			n.note.Warnf("link to private note %q", target.Title)
		}
		return markup.Target{NoteID: target.ID, Section: link.Section}, true
	}
	return markup.Target{VirtualID: n.runtime.virtualID(entity)}, true
}

func (n *noteResolver) ResolveFile(ref string) (string, bool) {
	if n.runtime.vault == nil {
		return ref, true
	}
	return n.runtime.vault.Resolve(ref)
}

func (n *noteResolver) Placeholder(tag *markup.Tag, element *html.Node) bool {
	if _, ok := n.runtime.late[tag.Name]; !ok {
		return false
	}
	n.runtime.lateQueue = append(n.runtime.lateQueue, &lateCall{
		note:    n.note,
		tag:     tag,
		element: element,
	})
	return true
}

func (n *noteResolver) Warnf(format string, args ...any) {
	n.note.Warnf(format, args...)
}
