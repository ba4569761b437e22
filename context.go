package docqa

import (
	"fmt"
	"strings"
)

// DefaultContextLimit caps the context handed to the language model, in characters.
const DefaultContextLimit = 5000

// UngroupedLabel names the context block of chunks without a parent section.
const UngroupedLabel = "none"

// BuildContext renders every group as a "### Section: <parent>" block of
// newline-joined chunk texts, joins the blocks with blank lines and cuts the
// result to the first limit characters. The cut ignores block boundaries.
func BuildContext(groups []*SectionGroup, limit int) string {
	if limit <= 0 {
		limit = DefaultContextLimit
	}

	blocks := make([]string, 0, len(groups))
	for _, g := range groups {
		label := g.ParentID
		if label == "" {
			label = UngroupedLabel
		}
		texts := make([]string, 0, len(g.Results))
		for _, r := range g.Results {
			texts = append(texts, r.Chunk.Text)
		}
		blocks = append(blocks, fmt.Sprintf("### Section: %s\n%s", label, strings.Join(texts, "\n")))
	}

	return Truncate(strings.Join(blocks, "\n\n"), limit)
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// SystemInstruction builds the instruction that confines the model to the
// given context.
func SystemInstruction(context string) string {
	var sb strings.Builder
	sb.WriteString("You are a technical assistant.\n")
	sb.WriteString("Answer ONLY using the provided context. Explain the answer in detail using the context.\n")
	sb.WriteString("Generate a readable answer with proper spacing and formatting.\n")
	sb.WriteString("If the answer is not present in the context, say exactly:\n")
	sb.WriteString("\"" + InsufficientInformation + "\"\n")
	sb.WriteString("Do not use prior knowledge.\n\n")
	sb.WriteString("Context:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
