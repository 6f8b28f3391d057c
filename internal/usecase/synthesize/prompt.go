package synthesize

import (
	"fmt"
	"strings"

	"github.com/campuskit/askdesk/internal/domain"
)

const systemPrompt = "You are a helpful college administration assistant. If context is insufficient, clearly state it."

const insufficiencyMessage = "I don't have sufficient information in my knowledge base to answer this question completely. Please contact the administration office directly or visit the official website."

const (
	maxHistoryTurns  = 6
	maxTurnChars     = 200
	maxItemsPerTopic = 3
)

// buildPrompt assembles the synthesis prompt: recent conversation, the
// original question, per-topic evidence blocks, and answering instructions.
func buildPrompt(question string, set domain.EvidenceSet, history []domain.Turn) string {
	var b strings.Builder

	b.WriteString("You are a helpful college administration assistant.\n")
	writeHistory(&b, history)

	fmt.Fprintf(&b, "**Student Question:** %s\n\n", question)

	b.WriteString("**Retrieved Information:**\n")
	for _, topic := range set.Topics() {
		fmt.Fprintf(&b, "\n=== %s ===\n", strings.ToUpper(topic))
		items := set[topic]
		if len(items) > maxItemsPerTopic {
			items = items[:maxItemsPerTopic]
		}
		for i := range items {
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, items[i].Source(), items[i].Content())
		}
	}

	b.WriteString(`
**Instructions:**
1. Answer the student's question directly and comprehensively using the retrieved information
2. **Use conversation history** to understand context if the current question refers to previous topics
3. **IMPORTANT:** If the retrieved information does NOT contain sufficient details to answer the question, respond with: "` + insufficiencyMessage + `"
4. Do NOT invent details that are not supported by the retrieved information.
5. If different sections disagree, briefly mention both views in one short sentence.
6. Be concise but complete and to the point as possible.
7. Use a friendly, professional tone
8. If information is from web sources, mention it's current/recent

**Your Answer:**`)

	return b.String()
}

func writeHistory(b *strings.Builder, history []domain.Turn) {
	if len(history) == 0 {
		return
	}

	b.WriteString("\n**Recent Conversation:**\n")
	for _, turn := range domain.RecentTurns(history, maxHistoryTurns) {
		label := "Assistant"
		if turn.Role() == domain.RoleUser {
			label = "Student"
		}
		fmt.Fprintf(b, "%s: %s\n", label, domain.TruncateText(turn.Content(), maxTurnChars))
	}
	b.WriteString("\n")
}
