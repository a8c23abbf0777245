package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptChatSystem instructs the model to answer strictly from the
	// provided chunks and return JSON with answer/citations/confidence.
	// This prompt has no format placeholders.
	PromptChatSystem = "chat_system"

	// PromptRiskSystem instructs the model to critique contract chunks and
	// return JSON with risks/non_standard/missing_clauses buckets.
	// This prompt has no format placeholders.
	PromptRiskSystem = "risk_system"

	// PromptSummarySystem instructs the model to produce a structured
	// contract summary as JSON. This prompt has no format placeholders.
	PromptSummarySystem = "summary_system"

	// PromptExtractionSystem instructs the model to extract structured
	// contract fields as JSON. This prompt has no format placeholders.
	PromptExtractionSystem = "extraction_system"
)
