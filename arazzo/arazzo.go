package arazzo

import (
	"sort"
	"strings"

	"github.com/oasforge/oasforge/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Result holds the rendered Markdown and Mermaid snippets for one document.
type Result struct {
	Markdown string `json:"markdown,omitempty"`
	Mermaid  string `json:"mermaid,omitempty"`
}

// document is the distilled view of an Arazzo specification that the
// renderers work from.
type document struct {
	Title       string
	Description string
	Flows       []flow
}

type flow struct {
	ID          string
	Summary     string
	Description string
	Steps       []step
}

type step struct {
	ID          string
	OperationID string
	Description string
	Outputs     []string
}

// rawSpec matches just the parts of an Arazzo document the renderers need.
type rawSpec struct {
	Info struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"info"`
	Workflows []struct {
		WorkflowID  string `yaml:"workflowId"`
		Summary     string `yaml:"summary"`
		Description string `yaml:"description"`
		Steps       []struct {
			StepID      string         `yaml:"stepId"`
			OperationID string         `yaml:"operationId"`
			Description string         `yaml:"description"`
			Outputs     map[string]any `yaml:"outputs"`
		} `yaml:"steps"`
	} `yaml:"workflows"`
}

// Visualize renders an Arazzo specification (YAML or JSON) as Markdown and
// a Mermaid flowchart.
func Visualize(spec []byte) (*Result, error) {
	trimmed := strings.TrimSpace(string(spec))
	if trimmed == "" {
		return nil, &oaserrors.DocumentError{Empty: true}
	}

	doc, err := parseSpec([]byte(trimmed))
	if err != nil {
		return nil, err
	}

	return &Result{
		Markdown: buildMarkdown(doc),
		Mermaid:  buildMermaid(doc),
	}, nil
}

func parseSpec(data []byte) (*document, error) {
	var raw rawSpec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &oaserrors.DocumentError{Message: "cannot parse Arazzo document", Cause: err}
	}
	if len(raw.Workflows) == 0 {
		return nil, &oaserrors.DocumentError{Message: "Arazzo document has no workflows"}
	}

	doc := &document{
		Title:       strings.TrimSpace(raw.Info.Title),
		Description: strings.TrimSpace(raw.Info.Description),
	}
	if doc.Title == "" {
		doc.Title = "Arazzo document"
	}

	for _, wf := range raw.Workflows {
		f := flow{
			ID:          strings.TrimSpace(wf.WorkflowID),
			Summary:     strings.TrimSpace(wf.Summary),
			Description: strings.TrimSpace(wf.Description),
		}
		for _, st := range wf.Steps {
			s := step{
				ID:          strings.TrimSpace(st.StepID),
				OperationID: strings.TrimSpace(st.OperationID),
				Description: strings.TrimSpace(st.Description),
			}
			if len(st.Outputs) > 0 {
				names := make([]string, 0, len(st.Outputs))
				for name := range st.Outputs {
					if t := strings.TrimSpace(name); t != "" {
						names = append(names, t)
					}
				}
				sort.Strings(names)
				s.Outputs = names
			}
			if s.ID == "" && s.OperationID == "" && s.Description == "" && len(s.Outputs) == 0 {
				continue
			}
			f.Steps = append(f.Steps, s)
		}
		if len(f.Steps) > 0 {
			doc.Flows = append(doc.Flows, f)
		}
	}
	if len(doc.Flows) == 0 {
		return nil, &oaserrors.DocumentError{Message: "Arazzo document has no workflows with steps"}
	}
	return doc, nil
}

// stepTitle picks the most specific available name for a step.
func stepTitle(s step) string {
	if s.ID != "" {
		return s.ID
	}
	if s.OperationID != "" {
		return s.OperationID
	}
	return "Step"
}
