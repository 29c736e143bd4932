package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message pair sent to the completion API.
type Prompt struct {
	System string
	User   string
}

const generateSystem = "You write complete, runnable Go programs. Output Markdown only: " +
	"a title heading, a short summary paragraph, one ```go code block with the full program, " +
	"and a sequence diagram or flowchart describing how it works. No other commentary."

const optimizeSystem = "You are a world class prompt engineer. Improve and enhance the prompt " +
	"you are given. Return only the revised prompt, with no explanation of the changes."

// BuildGeneratePrompt assembles the code-generation prompt: the fixed
// requirements preamble, the bundled helper-module catalog, and the user's
// app description, task/output/context/data style.
func BuildGeneratePrompt(description string, modules []ModuleFile) Prompt {
	var sb strings.Builder
	sb.WriteString("Complete this task: write a Go program that does the following.\n\n")
	sb.WriteString(description)
	sb.WriteString("\n\nRequirements for the code:\n")
	sb.WriteString("- Doc comments on the package, every exported type, and every exported function.\n")
	sb.WriteString("- One type is responsible for the main functionality; main stays thin.\n")
	sb.WriteString("- main accepts useful command line arguments via the flag package.\n")
	sb.WriteString("- Consistent structured logging of info, warning, and error events.\n")
	sb.WriteString("- Format the code gofmt-clean.\n")
	sb.WriteString("- Validate inputs and return errors instead of printing or panicking.\n")
	sb.WriteString("- Handle every error explicitly; no ignored return values.\n")

	sb.WriteString("\nThese helper packages ship alongside the generated program. ")
	sb.WriteString("Import them from github.com/espin086/AppGenie/toolkit/... instead of rewriting their functionality:\n")
	for _, m := range modules {
		sb.WriteString(fmt.Sprintf("\nFile: %s\n\n```go\n%s\n```\n", m.Name, m.Content))
	}

	sb.WriteString("\nFormat for output: Markdown with a title heading, a summary paragraph, ")
	sb.WriteString("a single ```go block holding the complete program, and a diagram of the control flow.\n")
	sb.WriteString("Context to remember: the program runs locally, so keep it easy to build and understand.\n")
	sb.WriteString("Data you need: the helper package sources above.\n")

	return Prompt{System: generateSystem, User: sb.String()}
}

// BuildRevisionPrompt asks for a minimal revision of prev based on a comment.
func BuildRevisionPrompt(prev Draft, comment string) Prompt {
	var sb strings.Builder
	sb.WriteString("Current response:\n\n")
	sb.WriteString(prev.Markdown)
	sb.WriteString("\n\nUser feedback: ")
	sb.WriteString(comment)
	sb.WriteString("\n\nApply the smallest change that addresses the feedback and output the ")
	sb.WriteString("complete revised Markdown in the same structure.")

	return Prompt{System: generateSystem, User: sb.String()}
}

// BuildOptimizerPrompt wraps a raw description for the optimizer pass.
func BuildOptimizerPrompt(description string) Prompt {
	return Prompt{
		System: optimizeSystem,
		User:   fmt.Sprintf("Improve and enhance this prompt: %s", description),
	}
}
