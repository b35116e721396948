package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oasforge/oasforge"
	"github.com/oasforge/oasforge/arazzo"
	"github.com/oasforge/oasforge/converter"
	"github.com/oasforge/oasforge/httpapi"
	"github.com/oasforge/oasforge/internal/mcpserver"
	"github.com/oasforge/oasforge/resolver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasforge v%s\n", oasforge.Version())
	case "help", "-h", "--help":
		printUsage()
	case "resolve":
		if err := handleResolve(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "convert":
		if err := handleConvert(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "arazzo":
		if err := handleArazzo(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := handleServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// isURL reports whether the spec argument should be fetched rather than
// read from disk.
func isURL(specPath string) bool {
	return strings.HasPrefix(specPath, "http://") || strings.HasPrefix(specPath, "https://")
}

// loadSpec reads the document text from a file path or URL. The returned
// sourceURL is empty for file inputs; relative references then resolve
// against nothing and must be absolute.
func loadSpec(ctx context.Context, specPath string) ([]byte, string, error) {
	if isURL(specPath) {
		data, err := resolver.NewHTTPFetcher().Fetch(ctx, specPath)
		if err != nil {
			return nil, "", err
		}
		return data, specPath, nil
	}
	data, err := os.ReadFile(specPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading spec file: %w", err)
	}
	return data, "", nil
}

// writeOutput writes data to the output path, or stdout when the path is empty.
func writeOutput(outputPath string, data []byte) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Output written to: %s\n", outputPath)
	return nil
}

// resolveFlags contains flags for the resolve command
type resolveFlags struct {
	output string
}

func setupResolveFlags() (*flag.FlagSet, *resolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &resolveFlags{}

	fs.StringVar(&flags.output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasforge resolve [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Resolve all $ref references into a single self-contained document.\n")
		_, _ = fmt.Fprintf(output, "External documents are fetched at most once each; recursive schemas\n")
		_, _ = fmt.Fprintf(output, "are emitted as internal $ref pointers.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasforge resolve openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  oasforge resolve -o bundled.yaml https://example.com/api/openapi.yaml\n")
	}

	return fs, flags
}

func handleResolve(args []string) error {
	fs, flags := setupResolveFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("resolve command requires exactly one file path or URL")
	}

	ctx := context.Background()
	data, sourceURL, err := loadSpec(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	result, err := resolver.New().Resolve(ctx, data, sourceURL)
	if err != nil {
		return fmt.Errorf("resolving references: %w", err)
	}

	encoded, err := resolver.EncodeDocument(resolver.Decycle(result.Document), result.Format)
	if err != nil {
		return fmt.Errorf("encoding resolved document: %w", err)
	}

	return writeOutput(flags.output, encoded)
}

// convertFlags contains flags for the convert command
type convertFlags struct {
	output string
}

func setupConvertFlags() (*flag.FlagSet, *convertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &convertFlags{}

	fs.StringVar(&flags.output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasforge convert [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Convert an OpenAPI document between the 3.0 and 3.1 dialects.\n")
		_, _ = fmt.Fprintf(output, "The direction is chosen from the document's openapi field:\n")
		_, _ = fmt.Fprintf(output, "3.0.x documents upgrade to 3.1.0, 3.1.x documents downgrade to 3.0.3.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasforge convert openapi-3.0.yaml\n")
		_, _ = fmt.Fprintf(output, "  oasforge convert -o openapi-3.0.yaml openapi-3.1.yaml\n")
	}

	return fs, flags
}

func handleConvert(args []string) error {
	fs, flags := setupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert command requires exactly one file path or URL")
	}

	data, _, err := loadSpec(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	result, err := converter.Convert(data)
	if err != nil {
		return fmt.Errorf("converting document: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Source Version: %s\n", result.SourceVersion)
	fmt.Fprintf(os.Stderr, "Target Version: %s\n", result.TargetVersion)

	encoded, err := resolver.EncodeDocument(result.Document, result.Format)
	if err != nil {
		return fmt.Errorf("encoding converted document: %w", err)
	}

	return writeOutput(flags.output, encoded)
}

// arazzoFlags contains flags for the arazzo command
type arazzoFlags struct {
	format string
	output string
}

func setupArazzoFlags() (*flag.FlagSet, *arazzoFlags) {
	fs := flag.NewFlagSet("arazzo", flag.ContinueOnError)
	flags := &arazzoFlags{}

	fs.StringVar(&flags.format, "format", "markdown", "output format (markdown or mermaid)")
	fs.StringVar(&flags.output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasforge arazzo [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Render an Arazzo workflow specification as Markdown or a Mermaid flowchart.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasforge arazzo workflows.arazzo.yaml\n")
		_, _ = fmt.Fprintf(output, "  oasforge arazzo -format mermaid -o flow.mmd workflows.arazzo.yaml\n")
	}

	return fs, flags
}

func handleArazzo(args []string) error {
	fs, flags := setupArazzoFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("arazzo command requires exactly one file path or URL")
	}

	if flags.format != "markdown" && flags.format != "mermaid" {
		fs.Usage()
		return fmt.Errorf("invalid format '%s'. Valid formats: markdown, mermaid", flags.format)
	}

	data, _, err := loadSpec(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	result, err := arazzo.Visualize(data)
	if err != nil {
		return fmt.Errorf("visualizing workflows: %w", err)
	}

	rendered := result.Markdown
	if flags.format == "mermaid" {
		rendered = result.Mermaid
	}

	return writeOutput(flags.output, []byte(rendered))
}

func setupServeFlags() (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (default: OASFORGE_ADDR or :8080)")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasforge serve [flags]\n\n")
		_, _ = fmt.Fprintf(output, "Start the HTTP API server.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nConfiguration is read from OASFORGE_* environment variables\n")
		_, _ = fmt.Fprintf(output, "(and a .env file if present). The -addr flag overrides OASFORGE_ADDR.\n")
	}

	return fs, addr
}

func handleServe(args []string) error {
	fs, addr := setupServeFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg := httpapi.ConfigFromEnv()
	if *addr != "" {
		cfg.Addr = *addr
	}
	cfg.Logger = resolver.NewSlogAdapter(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "oasforge v%s listening on %s\n", oasforge.Version(), cfg.Addr)
	return httpapi.NewServer(cfg).Run(ctx)
}

func handleMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

func printUsage() {
	fmt.Println(`oasforge - OpenAPI Resolution and Conversion Tools

Usage:
  oasforge <command> [options]

Commands:
  resolve     Resolve all $ref references into a self-contained document
  convert     Convert an OpenAPI document between 3.0 and 3.1
  arazzo      Render an Arazzo workflow spec as Markdown or Mermaid
  serve       Start the HTTP API server
  mcp         Start the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  oasforge resolve openapi.yaml
  oasforge resolve -o bundled.yaml https://example.com/api/openapi.yaml
  oasforge convert -o openapi-3.1.yaml openapi-3.0.yaml
  oasforge arazzo -format mermaid workflows.arazzo.yaml
  oasforge serve

Run 'oasforge <command> --help' for more information on a command.`)
}
