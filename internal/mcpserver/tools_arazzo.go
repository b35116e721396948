package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oasforge/oasforge/arazzo"
)

type arazzoInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The Arazzo document to visualize"`
	Output string    `json:"output,omitempty" jsonschema:"Which renderings to return: markdown\\, mermaid\\, or both (default)"`
}

type arazzoOutput struct {
	Markdown string `json:"markdown,omitempty"`
	Mermaid  string `json:"mermaid,omitempty"`
}

func handleArazzoVisualize(ctx context.Context, _ *mcp.CallToolRequest, input arazzoInput) (*mcp.CallToolResult, arazzoOutput, error) {
	switch input.Output {
	case "", "both", "markdown", "mermaid":
	default:
		return errResult(fmt.Errorf("invalid output value %q; valid values: markdown, mermaid, both", input.Output)), arazzoOutput{}, nil
	}

	data, _, err := input.Spec.load(ctx)
	if err != nil {
		return errResult(err), arazzoOutput{}, nil
	}

	result, err := arazzo.Visualize(data)
	if err != nil {
		return errResult(err), arazzoOutput{}, nil
	}

	output := arazzoOutput{Markdown: result.Markdown, Mermaid: result.Mermaid}
	switch input.Output {
	case "markdown":
		output.Mermaid = ""
	case "mermaid":
		output.Markdown = ""
	}
	return nil, output, nil
}
