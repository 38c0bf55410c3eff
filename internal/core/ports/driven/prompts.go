package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// ContextPlaceholder marks where the retrieved context goes in the answer prompt.
const ContextPlaceholder = "{context}"

// Well-known prompt names used throughout the application.
const (
	// PromptAnswerSystem is the grounded QA instruction.
	// ContextPlaceholder in the template is replaced by the retrieved context.
	PromptAnswerSystem = "answer_system"

	// PromptTranslateSystem instructs the model to translate a transcript to English.
	// This prompt has no format placeholders; the transcript is sent as the user turn.
	PromptTranslateSystem = "translate_system"
)
