package summary

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// charsPerToken calibrates the character-based token estimate. The exact
// constant is a tunable; what matters is that the estimate is deterministic
// and monotonic in text length so that prefix selection is stable.
const charsPerToken = 4

const transcriptTimeLayout = "02/01/2006 15:04"

// EstimateTokens returns a deterministic estimate of the generation-service
// cost of text.
func EstimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + charsPerToken - 1) / charsPerToken
}

// Prompt is one assembled generation request.
type Prompt struct {
	Instructions string
	Input        string

	// Lines and Tokens describe the selection for logging.
	Lines  int
	Tokens int
}

// AssemblePrompt renders messages as "[timestamp] author : content" lines in
// chronological ascending order and keeps the longest prefix that fits under
// budget, seeding the running cost with the instruction block. No
// backtracking, no reordering: if a line is excluded, every later line is
// too.
//
// The second return is false when nothing fits, which callers must surface
// as "nothing to summarize" instead of issuing an empty generation call.
func AssemblePrompt(msgs []ChannelMessage, focus string, budget int, loc *time.Location) (Prompt, bool) {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}

	instructions := summaryInstructions(focus)
	total := EstimateTokens(instructions) + EstimateTokens(summaryInputHeader)

	ordered := Chronological(msgs)
	selected := make([]string, 0, len(ordered))
	for _, msg := range ordered {
		line := fmt.Sprintf("[%s] %s : %s",
			msg.CreatedAt.In(loc).Format(transcriptTimeLayout),
			msg.AuthorName,
			msg.Content,
		)
		cost := EstimateTokens(line + "\n")
		if total+cost > budget {
			break
		}
		selected = append(selected, line)
		total += cost
	}

	if len(selected) == 0 {
		return Prompt{}, false
	}
	return Prompt{
		Instructions: instructions,
		Input:        summaryInputHeader + strings.Join(selected, "\n"),
		Lines:        len(selected),
		Tokens:       total,
	}, true
}
