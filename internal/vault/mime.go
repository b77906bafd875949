package vault

import "strings"

// Media types of the files usually stored next to notes.
// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Basics_of_HTTP/MIME_types/Common_types
var mimeTypes = map[string]string{
	// Images
	"avif": "image/avif",
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"ico":  "image/vnd.microsoft.icon",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",

	// Audio & video
	"aac":  "audio/aac",
	"mp3":  "audio/mpeg",
	"oga":  "audio/ogg",
	"wav":  "audio/wav",
	"mp4":  "video/mp4",
	"mpeg": "video/mpeg",
	"ogv":  "video/ogg",
	"webm": "video/webm",

	// Documents
	"csv":  "text/csv",
	"epub": "application/epub+zip",
	"json": "application/json",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"zip":  "application/zip",
}

// MimeType returns the media type of a file extension, with or without the leading dot.
func MimeType(extension string) string {
	mime, ok := mimeTypes[strings.ToLower(strings.TrimPrefix(extension, "."))]
	if !ok {
		// RFC 2046 declares:
		// The "octet-stream" subtype is used to indicate that a body contains arbitrary binary data.
		return "application/octet-stream"
	}
	return mime
}
