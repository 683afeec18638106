package llm

import "strings"

// CleanJSONBlock strips markdown fences and any conversational text around
// the first JSON object or array in a model response.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	var out string
	if text[start] == '{' {
		out = extractJSONObject(text[start:])
	} else {
		out = extractJSONArray(text[start:])
	}
	if out == "" {
		return text
	}
	return out
}

func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced returns the prefix of text from its opening delimiter to the
// matching close, ignoring delimiters inside JSON strings. It returns "" when
// text does not start with open or never closes.
func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
