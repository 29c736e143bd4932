package generator

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// ErrPromptTooLarge is returned when the assembled prompt exceeds the token
// budget for the configured model.
var ErrPromptTooLarge = errors.New("prompt exceeds token budget")

// defaultTokenBudget leaves headroom for the completion inside a 128k
// context window.
const defaultTokenBudget = 100_000

// CountTokens estimates the token count of a prompt for the given model.
// Unknown models fall back to the cl100k_base encoding.
func CountTokens(model string, p Prompt) int {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tke, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0
		}
	}
	return len(tke.Encode(p.System, nil, nil)) + len(tke.Encode(p.User, nil, nil))
}

// checkBudget rejects prompts that cannot fit the model context.
func checkBudget(model string, p Prompt) (int, error) {
	n := CountTokens(model, p)
	if n > defaultTokenBudget {
		return n, fmt.Errorf("%w: %d tokens, budget %d", ErrPromptTooLarge, n, defaultTokenBudget)
	}
	return n, nil
}
