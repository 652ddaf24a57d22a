package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer turns retrieved context into an answer. The template
	// holds PlaceholderContext and PlaceholderQuestion.
	PromptAnswer = "rag_answer"
)

// Placeholders replaced in the answer template.
const (
	PlaceholderContext  = "{context}"
	PlaceholderQuestion = "{question}"
)
