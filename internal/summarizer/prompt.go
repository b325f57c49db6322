package summarizer

import "fmt"

// promptTemplate is the only instruction the model ever sees. It contains
// the tool output and nothing else: no user question, no tool catalog, no
// conversation history.
const promptTemplate = `You are summarizing the raw output of a cluster monitoring tool.

Rules:
- Use only the data provided below. Do not invent numbers, names or causes.
- Reply with exactly 3 short bullet points.
- If the data is empty or shows nothing notable, say so plainly.

Tool output:
%s`

func buildPrompt(toolOutput string) string {
	return fmt.Sprintf(promptTemplate, toolOutput)
}
