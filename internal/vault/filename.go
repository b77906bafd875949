package vault

import (
	"regexp"
	"strings"
)

// <prefix>_<label>_<ID>.<version> <comment>.<ext>
var filenameRegex = regexp.MustCompile(`^(?:([0-9]+)_)?(?:(.+?)_)?([23456789CFGHJMPQRVWX]{8,})((?:\.[0-9]+)+)?(?: (.+?))?(?:\.([^.]+))?$`)

// Filename is a file name following the canonical naming convention.
//
//	01_summer-trip_WR9C7F3Q2M.2 beach.jpg
type Filename struct {
	Prefix  string
	Label   string
	ID      string
	Version string
	Comment string
	Ext     string
}

// ParseFilename extracts the parts of a canonical file name.
func ParseFilename(name string) (Filename, bool) {
	matches := filenameRegex.FindStringSubmatch(name)
	if matches == nil {
		return Filename{}, false
	}
	return Filename{
		Prefix:  matches[1],
		Label:   matches[2],
		ID:      matches[3],
		Version: strings.TrimPrefix(matches[4], "."),
		Comment: matches[5],
		Ext:     strings.ToLower(matches[6]),
	}, true
}

// String formats the file name.
func (f Filename) String() string {
	var sb strings.Builder
	if f.Prefix != "" {
		sb.WriteString(f.Prefix)
		sb.WriteString("_")
	}
	if f.Label != "" {
		sb.WriteString(f.Label)
		sb.WriteString("_")
	}
	sb.WriteString(f.ID)
	if f.Version != "" {
		sb.WriteString(".")
		sb.WriteString(f.Version)
	}
	if f.Comment != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Comment)
	}
	if f.Ext != "" {
		sb.WriteString(".")
		sb.WriteString(f.Ext)
	}
	return sb.String()
}

// MimeType returns the media type deduced from the extension.
func (f Filename) MimeType() string {
	return MimeType(f.Ext)
}

// IsImage returns if the extension is a known image format.
func (f Filename) IsImage() bool {
	return strings.HasPrefix(f.MimeType(), "image/")
}
