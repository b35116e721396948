package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oasforge/oasforge/resolver"
)

type dereferenceInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OAS document to dereference"`
	Output string    `json:"output,omitempty" jsonschema:"File path to write the bundled document. If omitted the document is returned inline."`
}

type dereferenceOutput struct {
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	WrittenTo string `json:"written_to,omitempty"`
	Document  string `json:"document,omitempty"`
}

func handleDereference(ctx context.Context, _ *mcp.CallToolRequest, input dereferenceInput) (*mcp.CallToolResult, dereferenceOutput, error) {
	data, sourceURL, err := input.Spec.load(ctx)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	res := resolver.New(resolver.WithFetcher(newFetcher()))
	result, err := res.Resolve(ctx, data, sourceURL)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	encoded, err := resolver.EncodeDocument(resolver.Decycle(result.Document), result.Format)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	output := dereferenceOutput{
		Filename: result.Filename + result.Format.Ext(),
		Format:   result.Format.String(),
	}
	if input.Output != "" {
		if err := os.WriteFile(input.Output, encoded, 0o644); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), dereferenceOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(encoded)
	}

	return nil, output, nil
}
