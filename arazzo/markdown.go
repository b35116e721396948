package arazzo

import (
	"fmt"
	"strings"
)

// buildMarkdown renders the document as a nested Markdown outline: document
// title, one section per workflow, one numbered heading per step.
func buildMarkdown(doc *document) string {
	var b strings.Builder

	b.WriteString("## " + doc.Title + "\n\n")
	if doc.Description != "" {
		b.WriteString(doc.Description + "\n\n")
	}

	for _, f := range doc.Flows {
		heading := f.ID
		if heading == "" && f.Summary != "" {
			heading = f.Summary
		}
		if heading == "" {
			heading = "Workflow"
		}
		b.WriteString("### Workflow: " + heading + "\n\n")
		if f.Description != "" {
			b.WriteString(f.Description + "\n\n")
		}

		for i, s := range f.Steps {
			b.WriteString(fmt.Sprintf("#### %d: %s\n\n", i+1, stepTitle(s)))
			if s.Description != "" {
				b.WriteString(s.Description + "\n\n")
			}
			if s.OperationID != "" {
				b.WriteString(fmt.Sprintf("- Operation: `%s`\n", s.OperationID))
			}
			if len(s.Outputs) > 0 {
				b.WriteString("- Outputs: " + strings.Join(s.Outputs, ", ") + "\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
