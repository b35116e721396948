package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oasforge/oasforge/converter"
	"github.com/oasforge/oasforge/resolver"
)

type convertInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OAS document to convert"`
	Output string    `json:"output,omitempty" jsonschema:"File path to write the converted document. If omitted the document is returned inline."`
}

type convertOutput struct {
	SourceVersion string `json:"source_version"`
	TargetVersion string `json:"target_version"`
	Filename      string `json:"filename"`
	WrittenTo     string `json:"written_to,omitempty"`
	Document      string `json:"document,omitempty"`
}

func handleConvertVersion(ctx context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	data, _, err := input.Spec.load(ctx)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	result, err := converter.Convert(data)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	encoded, err := resolver.EncodeDocument(result.Document, result.Format)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		SourceVersion: result.SourceVersion,
		TargetVersion: result.TargetVersion,
		Filename:      result.Filename + result.Format.Ext(),
	}
	if input.Output != "" {
		if err := os.WriteFile(input.Output, encoded, 0o644); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), convertOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(encoded)
	}

	return nil, output, nil
}
