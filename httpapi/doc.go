// Package httpapi exposes the resolver, converter, and Arazzo renderer over
// HTTP: dereference and convert endpoints that answer in the caller's own
// format with download-friendly filenames, a workflow visualization endpoint,
// a health check, and Prometheus metrics. Failures are reported as RFC 7807
// problem+json documents.
package httpapi
