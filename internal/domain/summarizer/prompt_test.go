package summarizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSummarizePrompt(t *testing.T) {
	prompt := BuildSummarizePrompt(Params{Length: LengthShort, Tonality: "formal", Focus: "pricing"})

	require.Contains(t, prompt, "STRICTLY 1-2 SENTENCES")
	require.Contains(t, prompt, "Maximum sentences: 2")
	require.Contains(t, prompt, "Style: FORMAL")
	require.Contains(t, prompt, `Focus: "pricing"`)
	require.Contains(t, prompt, "NEVER EXCEED 2 SENTENCES")
	require.Contains(t, prompt, "PRIORITIZE: PRICING")
}

func TestBuildSummarizePromptWithoutFocus(t *testing.T) {
	prompt := BuildSummarizePrompt(Params{Length: "unknown", Tonality: "neutral"})

	require.Contains(t, prompt, "EXACTLY 3-5 SENTENCES")
	require.Contains(t, prompt, "Focus: All main points")
	require.Contains(t, prompt, "COVER ALL MAIN POINTS")
}

func TestBuildSummarizePromptIsDeterministic(t *testing.T) {
	p := Params{Length: LengthLong, Tonality: "casual", Focus: "risks"}
	require.Equal(t, BuildSummarizePrompt(p), BuildSummarizePrompt(p))
}

func TestBuildRegeneratePrompt(t *testing.T) {
	prompt := BuildRegeneratePrompt(Params{Length: LengthLong, Tonality: "neutral", Temperature: 0.65, TopP: 0.95}, 42)

	require.Contains(t, prompt, "Source length: 42 words")
	require.Contains(t, prompt, "LONG (PRECISELY 6-8 SENTENCES)")
	require.Contains(t, prompt, "Temperature: 0.65")
	require.Contains(t, prompt, "Top-p: 0.95")
	require.Contains(t, prompt, "NEVER EXCEED 8 SENTENCES")
}

func TestUserMessages(t *testing.T) {
	require.Equal(t, "TEXT:\nabc", summarizeUserMessage("abc"))
	require.Equal(t, "Summarize this text:\nabc", regenerateUserMessage("abc"))
}
