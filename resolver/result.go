package resolver

import (
	"bytes"
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/oasforge/oasforge/internal/naming"
	"go.yaml.in/yaml/v4"
)

// SourceFormat identifies the serialization format of a source document.
type SourceFormat int

const (
	// SourceFormatYAML indicates a YAML document.
	SourceFormatYAML SourceFormat = iota
	// SourceFormatJSON indicates a JSON document.
	SourceFormatJSON
)

// String returns the lowercase format name.
func (f SourceFormat) String() string {
	if f == SourceFormatJSON {
		return "json"
	}
	return "yaml"
}

// Ext returns the filename extension for the format, with leading dot.
func (f SourceFormat) Ext() string {
	if f == SourceFormatJSON {
		return ".json"
	}
	return ".yaml"
}

// DetectFormat guesses whether data is JSON or YAML. A document whose first
// non-space byte opens a JSON object or array is JSON; everything else is
// treated as YAML, which is a superset anyway.
func DetectFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// Result is the outcome of a successful Resolve call.
type Result struct {
	// Document is the fully resolved tree. It may contain identity cycles
	// when the source uses recursive schemas; pass it through Decycle before
	// serializing.
	Document map[string]any

	// Filename is a download-friendly base name (no extension) derived from
	// the document's info.title, or from the source URL when the title is
	// absent or sanitizes to nothing.
	Filename string

	// Format is the detected serialization format of the source text.
	Format SourceFormat
}

// EncodeDocument serializes a document tree in the given format: two-space
// indented JSON, or YAML. The tree must be acyclic; run Decycle first when
// the source may contain recursive schemas.
func EncodeDocument(doc any, format SourceFormat) ([]byte, error) {
	if format == SourceFormatJSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}

// deriveDocumentName picks a base filename for a resolved document:
// the sanitized info.title when it yields anything, else the last path
// element of the source URL, else a fixed default.
func deriveDocumentName(doc map[string]any, base *url.URL) string {
	if info, ok := doc["info"].(map[string]any); ok {
		if title, ok := info["title"].(string); ok {
			if name := naming.SanitizeFilename(title); name != "" {
				return name
			}
		}
	}

	if base != nil {
		name := path.Base(base.Path)
		name = strings.TrimSuffix(name, path.Ext(name))
		if name = naming.SanitizeFilename(name); name != "" && name != "." {
			return name
		}
	}

	return naming.DefaultBaseName
}
