// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasforge capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oasforge/oasforge"
)

const serverInstructions = `oasforge MCP server: dereferences, converts, and visualizes OpenAPI and Arazzo documents.

Configuration: All defaults are configurable via OASFORGE_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASFORGE_FETCH_TIMEOUT (default: 20s): timeout per remote document fetch
- OASFORGE_MAX_INLINE_SIZE (default: 10485760): byte cap for inline content inputs
- OASFORGE_ALLOW_PRIVATE_IPS (default: false): allow URL inputs that resolve to private addresses

Each tool accepts a spec via exactly one of: file (path on disk), url, or content (inline JSON/YAML).`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasforge", Version: oasforge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "dereference",
		Description: "Resolve all $ref references in an OpenAPI document into a single self-contained document. External references are fetched (each document at most once) and recursive schemas come back as internal $ref pointers instead of infinite expansions. Returns the bundled document in the input's own format.",
	}, handleDereference)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_version",
		Description: "Convert an OpenAPI document between the 3.0 and 3.1 dialects. The direction is chosen from the document's own openapi field: 3.0.x upgrades to 3.1.0, 3.1.x downgrades to 3.0.3. Rewrites nullable, type arrays, const, null enum entries, webhooks, and jsonSchemaDialect.",
	}, handleConvertVersion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "arazzo_visualize",
		Description: "Render an Arazzo workflow specification as human-readable Markdown and a Mermaid flowchart. Use output to request markdown or mermaid only (default: both).",
	}, handleArazzoVisualize)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
