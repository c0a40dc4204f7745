// Package webform extracts fields from HTML documents using CSS-selector
// schemas, coerces the extracted values into typed structures, and can hand
// the result to a language model for reformatting.
//
// This package contains domain types, the extraction and coercion engine, and
// the interfaces it consumes, following Ben Johnson's Standard Package Layout.
// Implementations of those interfaces live in subdirectories named after their
// primary dependency (e.g., goquery/, gemini/, jsonschema/).
package webform
