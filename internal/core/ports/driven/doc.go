// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContractIndex: Per-contract similarity search structure
//   - IndexRegistry: Process-wide contract_id -> ContractIndex map
//   - ContractStore: Contract metadata and report persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, indexing
//     and semantic search are disabled for the affected contracts.
//   - LLMService: Generative operations. Without it, chat, model risk
//     critique and summaries fall back to deterministic output.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
