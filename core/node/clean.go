package node

import "strings"

// StripCodeFences removes fenced code blocks from text. A line whose trimmed
// form starts with ``` toggles fence state and is dropped; lines inside a
// fence are dropped with it. Text outside fences is preserved verbatim.
//
// The engine applies this to raw string results of model calls, which often
// arrive wrapped in markdown fences. Custom action results are never touched.
func StripCodeFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	inFence := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if !inFence {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
