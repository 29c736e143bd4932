package generator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	// ```go ... ``` fences; longest block wins.
	codeFenceRe = regexp.MustCompile("(?s)```(?:go|golang)?\\s*\\n(.*?)```")
)

// PostProcess validates the raw model response and extracts the structured
// Draft fields from it.
func PostProcess(raw string) (Draft, error) {
	md := strings.TrimSpace(raw)
	if md == "" {
		return Draft{}, errors.New("model returned empty response")
	}

	return Draft{
		Title:    extractTitle(md),
		Summary:  extractSummary(md),
		Markdown: md,
		Code:     extractCode(md),
	}, nil
}

func extractTitle(md string) string {
	if m := titleRe.FindStringSubmatch(md); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractSummary returns the first prose line that is neither a heading nor
// inside a code fence.
func extractSummary(md string) string {
	inFence := false
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}

// extractCode picks the longest fenced code block. A response with no fences
// is treated as bare code.
func extractCode(md string) string {
	matches := codeFenceRe.FindAllStringSubmatch(md, -1)
	if len(matches) == 0 {
		return md
	}
	var code string
	for _, m := range matches {
		if len(m[1]) > len(code) {
			code = m[1]
		}
	}
	return strings.TrimSpace(code) + "\n"
}
