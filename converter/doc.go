// Package converter rewrites OpenAPI documents between the 3.0 and 3.1
// schema dialects.
//
// The conversion direction is chosen from the document's own openapi field:
// 3.0.x documents upgrade to 3.1.0 and 3.1.x documents downgrade to 3.0.3.
// Schema keywords that differ between the dialects (nullable, type arrays,
// const, null enum entries) rewrite in both directions, along with the
// root-level jsonSchemaDialect and webhooks fields. Documents without a
// version field, or with a version outside 3.0/3.1, are rejected before any
// rewrite happens.
//
// Conversion is lossy only where OpenAPI 3.0 cannot express the 3.1 input,
// such as type unions beyond nullability.
package converter
