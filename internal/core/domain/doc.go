// Package domain defines the core business entities for Caremind.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - KnowledgeEntry: One retrievable unit of company knowledge
//   - DocumentSection: An intermediate parse unit produced by a parser
//   - SearchResult: A scored hit against the knowledge store
//   - Answer: The assistant's response to a single query
//   - Conversation / Turn: Per-session dialogue state
//   - LearnedFact / KnowledgeGap: Knowledge captured from conversations
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
