// Package parse converts raw model output strings into typed Go values.
// The single entry point is [StringAs], which handles primitives directly
// and repairs sloppy JSON (single quotes, trailing commas, unquoted keys)
// before giving up on structured targets.
package parse
