package converter

import (
	"strings"

	"github.com/oasforge/oasforge/internal/trees"
	"github.com/oasforge/oasforge/oaserrors"
	"github.com/oasforge/oasforge/resolver"
	"go.yaml.in/yaml/v4"
)

// Version targets for the two conversion directions. Patch releases of the
// specification do not change schema semantics, so any 3.0.x input maps to
// the same 3.1 target and vice versa.
const (
	Target31 = "3.1.0"
	Target30 = "3.0.3"
)

// Result is the outcome of a successful conversion.
type Result struct {
	// Document is the converted tree. The input document is never mutated.
	Document map[string]any

	// SourceVersion is the openapi field value found in the input.
	SourceVersion string

	// TargetVersion is the version the document was converted to.
	TargetVersion string

	// Filename is a download-friendly base name (no extension) for the
	// converted document, such as "openapi-3-1-0".
	Filename string

	// Format is the detected serialization format of the source text. It is
	// zero (YAML) for conversions that started from an in-memory document.
	Format resolver.SourceFormat
}

// Convert parses sourceText (JSON or YAML) and converts it to the other
// supported OpenAPI version: 3.0.x input becomes 3.1.0, 3.1.x becomes 3.0.3.
func Convert(sourceText []byte) (*Result, error) {
	if strings.TrimSpace(string(sourceText)) == "" {
		return nil, &oaserrors.DocumentError{Empty: true}
	}

	var raw any
	if err := yaml.Unmarshal(sourceText, &raw); err != nil {
		return nil, &oaserrors.DocumentError{Message: "cannot parse document", Cause: err}
	}
	root, ok := trees.NormalizeKeys(raw).(map[string]any)
	if !ok {
		return nil, &oaserrors.DocumentError{Message: "document root is not an object"}
	}

	result, err := ConvertDocument(root)
	if err != nil {
		return nil, err
	}
	result.Format = resolver.DetectFormat(sourceText)
	return result, nil
}

// ConvertVersion converts an already-parsed document tree and reports the
// version it was converted to. See ConvertDocument for details.
func ConvertVersion(doc map[string]any) (map[string]any, string, error) {
	result, err := ConvertDocument(doc)
	if err != nil {
		return nil, "", err
	}
	return result.Document, result.TargetVersion, nil
}

// ConvertDocument converts an already-parsed document tree. The input is
// deep-copied before any rewrite, so it is left untouched even on success.
// The tree must be acyclic; decycle resolved documents first.
func ConvertDocument(doc map[string]any) (*Result, error) {
	version, ok := doc["openapi"].(string)
	version = strings.TrimSpace(version)
	if !ok || version == "" {
		return nil, &oaserrors.ConversionError{Message: "document has no openapi field"}
	}

	out, ok := trees.DeepCopy(doc).(map[string]any)
	if !ok {
		return nil, &oaserrors.DocumentError{Message: "document root is not an object"}
	}

	var target string
	switch {
	case strings.HasPrefix(version, "3.0"):
		target = Target31
		upgradeRoot30To31(out)
	case strings.HasPrefix(version, "3.1"):
		target = Target30
		downgradeRoot31To30(out)
	default:
		return nil, &oaserrors.ConversionError{Version: version}
	}

	return &Result{
		Document:      out,
		SourceVersion: version,
		TargetVersion: target,
		Filename:      "openapi-" + strings.ReplaceAll(target, ".", "-"),
	}, nil
}
