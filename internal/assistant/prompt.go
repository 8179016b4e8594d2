package assistant

import "fmt"

// FallbackText is the canned reply returned when the text-generation
// provider is unavailable. It is delivered with HTTP 200 inside a structured
// payload so the UI can degrade gracefully.
const FallbackText = "I'm here to help with your writing! Try asking me to improve your content, check grammar, or suggest better structure."

const systemPromptTemplate = `You are an AI writing assistant helping with collaborative document editing.

Current document content:
%s

You can help with:
- Writing suggestions and improvements
- Grammar and style corrections
- Content organization and structure
- Research and fact-checking
- Creative writing assistance

Be concise, helpful, and professional in your responses. Focus on actionable advice.`

// SystemPrompt builds the fixed system instruction, embedding the current
// document text verbatim. Empty content renders the literal "No content yet".
func SystemPrompt(documentContent string) string {
	if documentContent == "" {
		documentContent = "No content yet"
	}
	return fmt.Sprintf(systemPromptTemplate, documentContent)
}
