package decompose

import (
	"fmt"
	"strings"

	"github.com/campuskit/askdesk/internal/domain"
)

const systemPrompt = "You are a precise query analyzer. Return ONLY valid JSON or empty dict {}."

// buildPrompt embeds the full topic catalog plus output-format instructions
// and few-shot examples into a single analysis prompt.
func buildPrompt(question string, catalog *domain.Catalog) string {
	var b strings.Builder

	b.WriteString("You are a query analyzer for a college administration assistant system.\n\n")

	b.WriteString("**Available Knowledge Sections:**\n")
	for _, t := range catalog.Topics() {
		fmt.Fprintf(&b, "- %s: %s\n", t.ID(), t.Description())
	}

	b.WriteString(`
**Your Task:**
Analyze the student query and determine which section(s) are relevant.

**Instructions:**
1. If the query is NOT related to college, campus, education or administration topics, return exactly an empty JSON object: {}
2. If the query IS related, identify the most relevant section(s) from the list above
3. For each relevant section, generate an optimized search subquery that will retrieve the best information

**Output Format:**
- Return ONLY valid JSON
- For out-of-domain queries: {}
- For relevant queries: {"section_name": "optimized subquery", ...}

**Examples:**

Query: "How do I apply for a scholarship?"
Response: {"scholarship": "scholarship application process requirements eligibility"}

Query: "What's the weather today?"
Response: {}

Query: "if I get year down due to backlogs will my scholarship continue next year?"
Response: {"exam_center": "year down rules due to backlogs academic progression impact on next year admission", "scholarship": "scholarship eligibility in case of year down or backlog repeat year"}

Query: "how to pay fees in installment on student portal?"
Response: {"fees_payment": "paying college fees in installments", "student_portal": "student portal fee payment options"}

`)

	fmt.Fprintf(&b, "**Student Query:** %s\n\n", question)
	b.WriteString("**Response (JSON only):**")

	return b.String()
}
