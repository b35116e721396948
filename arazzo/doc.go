// Package arazzo renders Arazzo workflow specifications as human-readable
// Markdown and Mermaid flowcharts.
//
// The renderer is deliberately tolerant: it extracts workflow and step
// metadata from the raw document without validating it against the Arazzo
// schema, skips steps that carry no usable information, and only rejects
// input that is empty, unparsable, or contains no workflow with steps.
package arazzo
