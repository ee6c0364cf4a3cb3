// Package prompts holds the prompt templates and system instructions used by
// the summarization, context-generation and evaluation flows.
package prompts

import "fmt"

// SystemInstructions keys: summarizer, note_context, evaluator.
var SystemInstructions = map[string]string{
	"summarizer": "You are a precise summarizer. Produce short, factual summaries " +
		"without editorializing. Never exceed three sentences.",
	"note_context": "You are a knowledgeable reading companion. Given a highlight or " +
		"excerpt, you add background, explain unfamiliar terms, and connect the idea " +
		"to related concepts. Be concrete and concise.",
	"evaluator": "You are a strict evaluator of AI-generated explanations. You judge " +
		"relevance, accuracy, helpfulness and clarity, and respond only in the " +
		"requested format.",
}

// CreateSummaryPrompt asks for a 2-3 sentence summary of page content.
func CreateSummaryPrompt(content string) string {
	return fmt.Sprintf(`Please provide a concise 2-3 sentence summary of the following content:

%s

Summary:`, content)
}

// CreateThreadSummaryPrompt asks for a 2-3 sentence summary of a tweet thread.
func CreateThreadSummaryPrompt(threadContent string) string {
	return fmt.Sprintf(`Please provide a concise 2-3 sentence summary of this Twitter thread:

%s

Summary:`, threadContent)
}

// CreateContextPrompt asks for additional context around a book note.
func CreateContextPrompt(bookTitle, noteContent string) string {
	return fmt.Sprintf(`The following is a highlight from a notebook titled "%s":

"%s"

Provide additional context for this highlight: explain the core idea, offer relevant background, and share insights that make it memorable.`, bookTitle, noteContent)
}

// CreateChunkContextPrompt asks for additional context around a URL chunk.
func CreateChunkContextPrompt(url, title, chunkContent string) string {
	return fmt.Sprintf(`The following is an excerpt from "%s" (%s):

"%s"

Provide additional context for this excerpt: explain the core idea, offer relevant background, and share insights that make it memorable.`, title, url, chunkContent)
}

// CreateTweetContextPrompt asks for additional context around one tweet of a
// thread.
func CreateTweetContextPrompt(authorUsername, threadTitle, tweetContent string) string {
	return fmt.Sprintf(`Tweet by @%s
Thread: "%s"

Tweet:
"%s"

Explain this concept clearly and provide a practical example that makes it memorable.`, authorUsername, threadTitle, tweetContent)
}

// CreateEvaluationPrompt asks the evaluator model to score a generated
// response. The reply must follow the Score:/Evaluation: line format that
// the evaluation parser expects.
func CreateEvaluationPrompt(originalPrompt, llmResponse string) string {
	return fmt.Sprintf(`Evaluate the quality of the following LLM response.

Original Prompt:
%s

LLM Response:
%s

Judge the response on these criteria:
- Relevance: does it address the prompt?
- Accuracy: is the information correct?
- Helpfulness: does it add useful context or examples?
- Clarity: is it well structured and easy to follow?

Format your response as:
Score: [a single number from 0.0 to 1.0]
Evaluation: [2-3 sentences explaining the score]`, originalPrompt, llmResponse)
}
