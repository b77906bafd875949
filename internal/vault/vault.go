// Package vault resolves files named with canonical identifiers.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julien-sobczak/the-noteweaver/pkg/filesystem"
	"github.com/julien-sobczak/the-noteweaver/pkg/oid"
	cp "github.com/otiai10/copy"
	"golang.org/x/exp/slices"
)

// Vault maps canonical identifiers to files.
type Vault interface {
	// Resolve returns the path relative to the vault of a canonical identifier or a relative path.
	Resolve(ref string) (string, bool)
	// Files returns the paths of all files with the given identifier.
	Files(id string) []string
}

// Directory is a vault backed by a local directory.
type Directory struct {
	root string
	byID map[string][]string
}

// Open indexes all files present in a directory.
// A missing directory is an empty vault.
func Open(root string) (*Directory, error) {
	d := &Directory{
		root: root,
		byID: make(map[string][]string),
	}
	if _, err := filesystem.Stat(root); os.IsNotExist(err) {
		return d, nil
	}
	paths, err := filesystem.ListFiles(root)
	if err != nil {
		return nil, fmt.Errorf("unable to list files in %q: %w", root, err)
	}
	for _, path := range paths {
		d.add(path)
	}
	return d, nil
}

func (d *Directory) add(relativePath string) {
	name, ok := ParseFilename(filepath.Base(relativePath))
	if !ok {
		return
	}
	paths := append(d.byID[name.ID], relativePath)
	slices.Sort(paths)
	d.byID[name.ID] = paths
}

// Root returns the directory of the vault.
func (d *Directory) Root() string {
	return d.root
}

// Size returns the number of identified files.
func (d *Directory) Size() int {
	count := 0
	for _, paths := range d.byID {
		count += len(paths)
	}
	return count
}

// Files implements Vault.
func (d *Directory) Files(id string) []string {
	return d.byID[id]
}

// Resolve implements Vault.
// The reference is an identifier, a canonical file name (ex: "cat_WR9C7F3Q2M.png") or a relative path.
// An identifier resolves to the first image file, or the first file when none is an image.
// The extension of a canonical file name selects among the files sharing the identifier.
func (d *Directory) Resolve(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if !strings.ContainsRune(ref, '/') {
		if name, ok := ParseFilename(ref); ok {
			if path, ok := d.resolveName(name); ok {
				return path, true
			}
		}
	}
	if ref == "" {
		return "", false
	}
	if _, err := filesystem.Stat(filepath.Join(d.root, ref)); err != nil {
		return "", false
	}
	return ref, true
}

func (d *Directory) resolveName(name Filename) (string, bool) {
	paths := d.byID[name.ID]
	if len(paths) == 0 {
		return "", false
	}
	if name.Ext != "" {
		for _, path := range paths {
			if candidate, _ := ParseFilename(filepath.Base(path)); candidate.Ext == name.Ext {
				return path, true
			}
		}
	}
	for _, path := range paths {
		if candidate, _ := ParseFilename(filepath.Base(path)); candidate.IsImage() {
			return path, true
		}
	}
	return paths[0], true
}

// Import copies a file into the vault under a canonical name derived from its content.
func (d *Directory) Import(src string, label string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	name := Filename{
		Label: label,
		ID:    oid.NewFromBytes(data).String(),
		Ext:   strings.ToLower(strings.TrimPrefix(filepath.Ext(src), ".")),
	}
	relativePath := name.String()
	if err := cp.Copy(src, filepath.Join(d.root, relativePath)); err != nil {
		return "", fmt.Errorf("unable to import %q: %w", src, err)
	}
	d.add(relativePath)
	return relativePath, nil
}
