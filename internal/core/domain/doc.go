// Package domain defines the core entities for kbadmin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FileRecord: A raw file uploaded to the backend
//   - DocumentRecord: A file promoted into the knowledge base
//   - TaskRecord: A background ingestion or deletion job
//   - ChatTurn: One entry in an assistant conversation
//   - Selection: A set of selected identifiers kept consistent with a list
//   - Result: A resolved backend payload, possibly simulated
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
