// Package oasforge provides tools for transforming OpenAPI Specification
// documents: resolving multi-document specifications into a single bundle,
// converting between the 3.0 and 3.1 schema dialects, and rendering Arazzo
// workflow documents as human-readable output.
//
// # Overview
//
// The library consists of three primary packages:
//
//   - resolver: resolve and bundle $ref graphs, including recursive schemas
//   - converter: convert documents between the 3.0 and 3.1 dialects
//   - arazzo: render Arazzo workflow documents as markdown and mermaid
//
// The same operations are exposed over HTTP (package httpapi), over MCP
// (oasforge mcp), and on the command line (cmd/oasforge).
//
// # Quick Start
//
// Resolve and bundle a specification:
//
//	import "github.com/oasforge/oasforge/resolver"
//
//	r := resolver.New(resolver.WithFetcher(resolver.NewHTTPFetcher()))
//	result, err := r.Resolve(ctx, data, "https://example.com/openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	bundled := resolver.Decycle(result.Document)
//
// Resolution inlines every reference, fetching external documents at most
// once each. The resolved tree may contain identity cycles when the source
// uses recursive schemas; Decycle rewrites it into a finite tree where each
// cycle is broken by a synthetic $ref, so the result is always serializable.
//
// Convert a document between dialects:
//
//	import "github.com/oasforge/oasforge/converter"
//
//	result, err := converter.Convert(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("converted to %s\n", result.TargetVersion)
//
// # Errors
//
// All packages return the structured error types of package oaserrors, which
// support errors.Is and errors.As for programmatic handling.
package oasforge
