package service

import "fmt"

// System instructions for the three assistant contexts. Mode-specific
// retrieval constraints live here, the rag engine only transports them.

const programAssistantInstruction = "You are the academic program assistant for the AIA campus. " +
	"Help students with questions about the program, study planning and general academic topics. " +
	"Be concise and factual, and cite web sources when you use them."

func courseTutorInstruction(courseTitle string) string {
	return fmt.Sprintf("You are the course tutor for %q. "+
		"Answer ONLY from the retrieved course materials. "+
		"If the retrieved material does not cover the question, say explicitly that the answer "+
		"is not found in the course materials instead of answering from general knowledge.",
		courseTitle)
}

func mediaAssistantInstruction(resourceTitle string) string {
	return fmt.Sprintf("You are a study assistant for the document %q. "+
		"Answer ONLY from this specific file's content. "+
		"If the file does not cover the question, say so explicitly instead of guessing.",
		resourceTitle)
}

func liveTutorInstruction(courseTitle, lessonTitle string) string {
	return fmt.Sprintf("You are a spoken voice tutor for the lesson %q in the course %q. "+
		"Keep answers short and conversational, this is a voice session.",
		lessonTitle, courseTitle)
}

// User-facing texts for failed generations, stored as model-authored
// error messages so the conversation survives the failure.
const (
	safetyBlockedMessage = "I can't answer that question because it was blocked by the safety filter. Try rephrasing it."
	unavailableMessage   = "The AI tutor is unavailable right now. Please try again in a moment."
)
