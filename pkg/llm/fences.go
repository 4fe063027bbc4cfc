package llm

import "strings"

var fenceLanguageTags = map[string]bool{
	"sql":        true,
	"mysql":      true,
	"postgresql": true,
	"psql":       true,
}

// StripCodeFences removes Markdown code-fence delimiters from a model
// response. Models often wrap SQL in triple backticks with an optional
// language tag; the caller wants only the inner statement, trimmed.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// drop the opening fence line when it is empty or a language tag
		first := strings.TrimSpace(s[:idx])
		if first == "" || fenceLanguageTags[strings.ToLower(first)] {
			s = s[idx+1:]
		}
	} else {
		// single-line fence, e.g. "```sql SELECT 1```"
		fields := strings.Fields(s)
		if len(fields) > 0 && fenceLanguageTags[strings.ToLower(fields[0])] {
			s = strings.TrimSpace(s)[len(fields[0]):]
		}
	}

	return strings.TrimSpace(s)
}
