// Package domain defines the core business entities for contralens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Contract: An ingested contract with metadata
//   - Chunk: A bounded slice of contract text, the unit of retrieval
//   - SearchHit: A scored chunk returned from similarity search
//   - RiskReport: The aggregate output of the risk pipeline
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
