// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KnowledgeStore: Knowledge entry persistence
//   - SearchIndex: Inverted keyword index over knowledge entries
//   - LearningStore: Learned fact and knowledge gap persistence
//   - ConversationStore: Per-session conversation persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
