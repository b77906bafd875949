package core

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/julien-sobczak/the-noteweaver/internal/graph"
	"github.com/julien-sobczak/the-noteweaver/internal/markup"
	"github.com/julien-sobczak/the-noteweaver/pkg/resync"
	"github.com/julien-sobczak/the-noteweaver/pkg/text"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// How many parent directories to traverse before considering a directory as not a nw repository
const maxDepth = 10

// Default .nw/config content
const DefaultConfig = `
[core]
extensions=["nw"]

[build]
target="build"
files="files"
content-width=588
`

// Default .nwignore content
const DefaultIgnore = `
build/
.nw/
`

// Default .nw/types.yml content
const DefaultTypes = `
types: []
`

var (
	// Lazy-load configuration and ensure a single read
	configOnce      resync.Once
	configSingleton *Config
)

// Note: Fields must be public for toml package to unmarshall
type ConfigFile struct {
	Core  ConfigCore  `toml:"core"`
	Build ConfigBuild `toml:"build"`
	Graph ConfigGraph `toml:"graph"`
}
type ConfigCore struct {
	Extensions []string `toml:"extensions"`
}
type ConfigBuild struct {
	// Directory containing the notes relative to the root directory
	Source string `toml:"source"`
	// Directory where to write the site
	Target string `toml:"target"`
	// Directory containing files with canonical names
	Files         string `toml:"files"`
	ContentWidth  int    `toml:"content-width"`
	HeadingPrefix string `toml:"heading-prefix"`
	// Exclude notes with a private type
	Public       bool     `toml:"public"`
	PrivateTypes []string `toml:"private-types"`
	// Notes ignored by orphan lists
	TitleNotes []string `toml:"title-notes"`
	// Directories copied as is in the target directory
	StaticDirs []string `toml:"static-dirs"`
}
type ConfigGraph struct {
	MaxDepth int `toml:"max-depth"`
}

// SupportExtension checks if the given file extension must be considered.
func (f *ConfigFile) SupportExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".") // ".nw" => "nw"
	for _, extension := range f.Core.Extensions {
		if strings.EqualFold(extension, ext) { // case-insensitive
			return true
		}
	}
	return false
}

// IsPrivateType returns if notes of this type are excluded from public builds.
func (f *ConfigFile) IsPrivateType(typ string) bool {
	return slices.Contains(f.Build.PrivateTypes, typ)
}

// IsTitleNote returns if a note only introduces other notes.
func (f *ConfigFile) IsTitleNote(title string) bool {
	return slices.Contains(f.Build.TitleNotes, title)
}

// GraphOptions returns the options to use when parsing graph data.
func (f *ConfigFile) GraphOptions() []graph.Option {
	if f.Graph.MaxDepth > 0 {
		return []graph.Option{graph.MaxDepth(f.Graph.MaxDepth)}
	}
	return nil
}

// RenderOptions returns the options to use when rendering notes.
func (f *ConfigFile) RenderOptions() []markup.RenderOption {
	var options []markup.RenderOption
	if f.Build.ContentWidth > 0 {
		options = append(options, markup.ContentWidth(f.Build.ContentWidth))
	}
	if f.Build.HeadingPrefix != "" {
		options = append(options, markup.HeadingPrefix(f.Build.HeadingPrefix))
	}
	return options
}

type IgnoreFile struct {
	Entries GlobPaths
}

func (i *IgnoreFile) MustExcludeFile(path string, dir bool) bool {
	path = strings.Trim(filepath.ToSlash(path), "/")
	if dir {
		path += "/"
	}
	return i.Entries.Match(path)
}

type GlobPath string

func (g GlobPath) Negate() bool {
	return strings.HasPrefix(string(g), "!")
}

func (g GlobPath) Expr() string {
	return strings.TrimPrefix(string(g), "!")
}

// Match tests a given path. NB: Directories must have a trailing /.
func (g GlobPath) Match(path string) bool {
	// The Go standard library doesn't support the same Git syntax (ex: ** is missing).
	// Compare https://git-scm.com/docs/gitignore with https://go.dev/src/path/filepath/match.go

	if runtime.GOOS == "windows" {
		path = filepath.ToSlash(path)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	expr := g.Expr()
	leadingSlash := strings.HasPrefix(expr, "/")
	trailingSlash := strings.HasSuffix(expr, "/")
	// Ex: "build/" => `/build/.*?` to match "build/index.html" but not "mybuild/"
	if !leadingSlash {
		expr = "/" + expr
	}
	if trailingSlash {
		expr = expr + "**/"
	}

	parts := strings.Split(expr, "**/")
	var partsPatterns []string
	for _, part := range parts {
		subparts := strings.Split(regexp.QuoteMeta(part), `\*`)
		partsPatterns = append(partsPatterns, strings.Join(subparts, "[^/]*?")) // * => [^/]*
	}
	pattern := strings.Join(partsPatterns, ".*?") // ** => .*?

	if leadingSlash {
		pattern = "^" + pattern
	}

	rePattern, err := regexp.Compile(pattern)
	if err != nil {
		CurrentLogger().Warnf("Invalid glob pattern %q: %v", g, err)
		return false
	}

	return rePattern.MatchString(path)
}

type GlobPaths []GlobPath

// Match tests if a file path satisfies the conditions.
func (g GlobPaths) Match(path string) bool {
	foundMatch := false
	for _, entry := range g {
		// Test all lines to find a match (if a line match = the path must be included)
		if entry.Match(path) {
			if entry.Negate() {
				// An exclusion matched, the file must no longer be included.
				return false
			}
			foundMatch = true
		}
	}
	return foundMatch
}

// TypesFile declares the entity types listed by \entity_list.
type TypesFile struct {
	Types []ConfigType `yaml:"types"`
}

type ConfigType struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// Label returns the title to use when listing entities of a type.
func (t *TypesFile) Label(name string) string {
	for _, typ := range t.Types {
		if typ.Name == name && typ.Label != "" {
			return typ.Label
		}
	}
	return name
}

/* Main config */

type Config struct {
	// Absolute top directory containing the .nw sub-directory
	RootDirectory string

	// .nw/config content
	ConfigFile ConfigFile

	// .nw/types.yml content
	TypesFile TypesFile

	// .nwignore content
	IgnoreFile IgnoreFile
}

func CurrentConfig() *Config {
	configOnce.Do(func() {
		var err error
		configSingleton, err = ReadConfigFromDirectory(currentHome())
		if err != nil {
			CurrentLogger().Fatalf("Unable to read current configuration: %v", err)
		}
		if configSingleton == nil {
			CurrentLogger().Fatal("fatal: not a NoteWeaver repository (or any of the parent directories): .nw")
		}
	})
	return configSingleton
}

// NewConfig returns the default configuration for a directory.
func NewConfig(rootDirectory string) *Config {
	configFile, err := parseConfigFile(DefaultConfig)
	if err != nil {
		panic(fmt.Sprintf("default configuration is broken: %v", err))
	}
	ignoreFile, err := parseIgnoreFile(DefaultIgnore)
	if err != nil {
		panic(fmt.Sprintf("default ignore file is broken: %v", err))
	}
	return &Config{
		RootDirectory: rootDirectory,
		ConfigFile:    *configFile,
		IgnoreFile:    *ignoreFile,
	}
}

// Override merges the non-empty settings into the build configuration.
func (c *Config) Override(overrides ConfigBuild) error {
	return copier.CopyWithOption(&c.ConfigFile.Build, &overrides, copier.Option{IgnoreEmpty: true})
}

// SourceDirectory returns the absolute path of the directory containing the notes.
func (c *Config) SourceDirectory() string {
	return filepath.Join(c.RootDirectory, c.ConfigFile.Build.Source)
}

// TargetDirectory returns the absolute path of the generated site.
func (c *Config) TargetDirectory() string {
	if filepath.IsAbs(c.ConfigFile.Build.Target) {
		return c.ConfigFile.Build.Target
	}
	return filepath.Join(c.RootDirectory, c.ConfigFile.Build.Target)
}

// FilesDirectory returns the absolute path of the vault.
func (c *Config) FilesDirectory() string {
	return filepath.Join(c.RootDirectory, c.ConfigFile.Build.Files)
}

// IndexPath returns the path of the database indexing the built notes.
func (c *Config) IndexPath() string {
	return filepath.Join(c.RootDirectory, ".nw", "index.db")
}

// String returns the configuration as written in .nw/config.
func (c *Config) String() string {
	data, err := toml.Marshal(c.ConfigFile)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func currentHome() string {
	// Supports overriding the root directory mainly for testing purposes.
	//
	//   $ env NW_HOME=./examples go run ./cmd/nw build
	if path, ok := os.LookupEnv("NW_HOME"); ok {
		abspath, err := filepath.Abs(path)
		if err != nil {
			CurrentLogger().Fatal("Failed to evaluate $NW_HOME")
		}
		if _, err := os.Stat(abspath); os.IsNotExist(err) {
			CurrentLogger().Fatal("Path in $NW_HOME undefined")
		}
		return abspath
	}

	cwd, err := os.Getwd()
	if err != nil {
		CurrentLogger().Fatalf("Unable to determine current directory: %v", err)
	}
	return cwd
}

// ReadConfigFromDirectory loads the configuration by searching for a .nw directory in the given directory
// or any parent directories. A nil configuration is returned when no directory is found.
func ReadConfigFromDirectory(path string) (*Config, error) {
	rootPath := path
	i := 0 // Safeguard to not go up too far
	for {
		i++
		if i > maxDepth {
			return nil, nil
		}
		nwPath := filepath.Join(rootPath, ".nw")
		_, err := os.Stat(nwPath)
		if os.IsNotExist(err) {
			parent := filepath.Dir(rootPath)
			if parent == rootPath {
				// Root directory detected
				return nil, nil
			}
			rootPath = parent
		} else if err != nil {
			return nil, fmt.Errorf("error while searching for configuration directory: %w", err)
		} else {
			break
		}
	}

	configFile, err := readOrDefault(filepath.Join(rootPath, ".nw", "config"), DefaultConfig, parseConfigFile)
	if err != nil {
		return nil, err
	}
	typesFile, err := readOrDefault(filepath.Join(rootPath, ".nw", "types.yml"), DefaultTypes, parseTypesFile)
	if err != nil {
		return nil, err
	}
	ignoreFile, err := readOrDefault(filepath.Join(rootPath, ".nwignore"), DefaultIgnore, parseIgnoreFile)
	if err != nil {
		return nil, err
	}

	return &Config{
		RootDirectory: rootPath,
		ConfigFile:    *configFile,
		TypesFile:     *typesFile,
		IgnoreFile:    *ignoreFile,
	}, nil
}

// readOrDefault parses a configuration file or its default content when missing.
func readOrDefault[T any](path string, defaultContent string, parse func(string) (*T, error)) (*T, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		result, err := parse(defaultContent)
		if err != nil {
			return nil, fmt.Errorf("default configuration %s is broken: %w", filepath.Base(path), err)
		}
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, err := parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}

// parseConfigFile reads a configuration on top of the default one.
func parseConfigFile(content string) (*ConfigFile, error) {
	var result ConfigFile
	for _, c := range []string{DefaultConfig, content} {
		d := toml.NewDecoder(strings.NewReader(c))
		d.DisallowUnknownFields()
		if err := d.Decode(&result); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

func parseTypesFile(content string) (*TypesFile, error) {
	var result TypesFile
	if err := yaml.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func parseIgnoreFile(content string) (*IgnoreFile, error) {
	var entries GlobPaths
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if text.IsBlank(line) || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, GlobPath(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &IgnoreFile{Entries: entries}, nil
}
