package summarizer

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildSummarizePrompt renders the system instruction for a first generation.
func BuildSummarizePrompt(p Params) string {
	var b strings.Builder
	b.WriteString("SUMMARY INSTRUCTIONS\n\n")
	fmt.Fprintf(&b, "TASK: Write a %s summary in a %s tone.\n\n", p.Length, p.Tonality)
	b.WriteString("PARAMETERS:\n")
	fmt.Fprintf(&b, "- Length: %s\n", p.Length.directive())
	fmt.Fprintf(&b, "- Maximum sentences: %d\n", p.Length.SentenceCap())
	fmt.Fprintf(&b, "- Style: %s\n", strings.ToUpper(p.Tonality))
	fmt.Fprintf(&b, "- Focus: %s\n\n", focusLine(p.Focus))
	b.WriteString("RULES:\n")
	fmt.Fprintf(&b, "1. NEVER EXCEED %d SENTENCES\n", p.Length.SentenceCap())
	b.WriteString("2. USE SIMPLE LANGUAGE\n")
	b.WriteString("3. PRESERVE FACTS ONLY\n")
	b.WriteString("4. OMIT EXAMPLES AND ANALOGIES\n")
	fmt.Fprintf(&b, "5. %s", focusRule(p.Focus))
	return b.String()
}

// BuildRegeneratePrompt renders the system instruction for a regeneration.
// It also echoes the source word count and the sampling parameters.
func BuildRegeneratePrompt(p Params, sourceWords int) string {
	var b strings.Builder
	b.WriteString("SUMMARY REGENERATION\n\n")
	b.WriteString("INPUT:\n")
	fmt.Fprintf(&b, "- Source length: %d words\n", sourceWords)
	fmt.Fprintf(&b, "- Focus: %s\n", focusLine(p.Focus))
	fmt.Fprintf(&b, "- Style: %s\n\n", strings.ToUpper(p.Tonality))
	b.WriteString("GENERATION:\n")
	fmt.Fprintf(&b, "- Length class: %s (%s)\n", strings.ToUpper(string(p.Length)), p.Length.directive())
	fmt.Fprintf(&b, "- Temperature: %s\n", formatFloat(p.Temperature))
	fmt.Fprintf(&b, "- Top-p: %s\n\n", formatFloat(p.TopP))
	b.WriteString("RULES:\n")
	fmt.Fprintf(&b, "1. NEVER EXCEED %d SENTENCES\n", p.Length.SentenceCap())
	b.WriteString("2. PRESERVE THE ORIGINAL MEANING AND FACTS ONLY\n")
	b.WriteString("3. OMIT EXAMPLES AND ANALOGIES\n")
	b.WriteString("4. USE SIMPLE SENTENCE STRUCTURES\n")
	fmt.Fprintf(&b, "5. %s\n\n", focusRule(p.Focus))
	b.WriteString("OUTPUT:\n")
	b.WriteString("- Plain text only, no bullet points\n")
	b.WriteString("- Complete sentences, no meta-commentary")
	return b.String()
}

func summarizeUserMessage(text string) string {
	return "TEXT:\n" + text
}

func regenerateUserMessage(text string) string {
	return "Summarize this text:\n" + text
}

func focusLine(focus string) string {
	if focus == "" {
		return "All main points"
	}
	return `"` + focus + `"`
}

func focusRule(focus string) string {
	if focus == "" {
		return "COVER ALL MAIN POINTS"
	}
	return "PRIORITIZE: " + strings.ToUpper(focus)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
