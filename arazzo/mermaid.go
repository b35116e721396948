package arazzo

import (
	"fmt"
	"regexp"
	"strings"
)

var mermaidIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// sanitizeMermaidID turns an arbitrary step identifier into a node ID that
// Mermaid accepts, deduplicating against already-used IDs with a numeric
// suffix. offset seeds the fallback name for steps without an identifier.
func sanitizeMermaidID(base string, offset int, used map[string]struct{}) string {
	candidate := strings.TrimSpace(base)
	if candidate == "" {
		candidate = fmt.Sprintf("step_%d", offset)
	}
	candidate = strings.ToLower(candidate)
	candidate = mermaidIDSanitizer.ReplaceAllString(candidate, "_")
	candidate = strings.Trim(candidate, "_")
	if candidate == "" {
		candidate = fmt.Sprintf("step_%d", offset)
	}
	if candidate[0] >= '0' && candidate[0] <= '9' {
		candidate = "s_" + candidate
	}
	original := candidate
	suffix := 2
	for {
		if _, exists := used[candidate]; !exists {
			used[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", original, suffix)
		suffix++
	}
}

func escapeMermaidText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// buildMermaid renders the document as a top-down Mermaid graph with one
// subgraph per workflow and sequential edges between consecutive steps.
func buildMermaid(doc *document) string {
	var b strings.Builder
	b.WriteString("---\n")
	if doc.Title != "" {
		b.WriteString("title: " + escapeMermaidText(doc.Title) + "\n")
	}
	b.WriteString("---\n")
	b.WriteString("graph TD\n")

	used := make(map[string]struct{})
	idx := 0
	for flowIdx, f := range doc.Flows {
		title := f.ID
		if title == "" && f.Summary != "" {
			title = f.Summary
		}
		if title == "" {
			title = fmt.Sprintf("workflow_%d", flowIdx+1)
		}
		b.WriteString("subgraph " + escapeMermaidText(title) + "\n")

		var prevNode string
		for stepIdx, s := range f.Steps {
			nodeID := sanitizeMermaidID(s.ID, idx, used)
			idx++

			label := s.ID
			if label == "" {
				label = stepTitle(s)
			}
			if s.OperationID != "" {
				label = fmt.Sprintf("%s (%s)", label, s.OperationID)
			}
			b.WriteString(fmt.Sprintf("%s[\"%s\"]\n", nodeID, escapeMermaidText(label)))

			if stepIdx > 0 && prevNode != "" {
				b.WriteString(fmt.Sprintf("%s ---> %s\n", prevNode, nodeID))
			}
			prevNode = nodeID
		}
		b.WriteString("end\n")
	}
	return b.String()
}
