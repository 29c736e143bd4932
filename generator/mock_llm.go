package generator

import (
	"context"
	"strings"
)

// MockLLM is a stand-in completion client for local runs and tests; it never
// calls an external model.
type MockLLM struct {
	// Err, when set, is returned from every Complete call.
	Err error
}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if strings.Contains(prompt.System, "prompt engineer") {
		return prompt.User, nil
	}

	var sb strings.Builder
	sb.WriteString("# Generated Sample App\n\n")
	sb.WriteString("A placeholder program assembled without calling an external model.\n\n")
	sb.WriteString("```go\n")
	sb.WriteString("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"generated placeholder\")\n}\n")
	sb.WriteString("```\n")
	return sb.String(), nil
}
