package agents

import "strings"

// extractJSON pulls a JSON object out of free-form LLM text that may wrap
// it in a markdown code fence or surround it with prose. The architect
// agent, the only planner whose reply is parsed as JSON, needs this
// because its prompt cannot force a model to emit nothing but JSON; the corpus itself re-implements this exact algorithm
// in more than one file, so it is written once here instead.
func extractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
	}

	if idx := strings.Index(text, "```"); idx != -1 {
		start := idx + 3
		if newline := strings.Index(text[start:], "\n"); newline != -1 {
			start += newline + 1
		}
		if end := strings.Index(text[start:], "```"); end != -1 {
			return strings.TrimSpace(text[start : start+end])
		}
	}

	if idx := strings.Index(text, "{"); idx != -1 {
		depth := 0
		inString := false
		escaped := false
		for i := idx; i < len(text); i++ {
			c := text[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = !inString
			case inString:
				// inside a string literal, braces don't count
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					return text[idx : i+1]
				}
			}
		}
	}

	return strings.TrimSpace(text)
}
