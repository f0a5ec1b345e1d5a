package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Artexxx/perf-tracker/internal/dto"
)

func TestTokensSplitsAndNormalizes(t *testing.T) {
	assert.Equal(t,
		[]string{"focus", "teamwork", "code review"},
		Tokens("Focus, Teamwork; code review"),
	)
}

func TestTokensDropsShortTokens(t *testing.T) {
	assert.Equal(t, []string{"good"}, Tokens("go, good, a"))
}

func TestTokensLengthFilterCountsRunes(t *testing.T) {
	// Two Cyrillic characters are four bytes but still a short token.
	assert.Equal(t, []string{"фокус"}, Tokens("да, фокус"))
}

func TestTokensListInput(t *testing.T) {
	assert.Equal(t, []string{"focus", "delivery"}, Tokens([]string{" Focus ", "Delivery"}))
	assert.Equal(t, []string{"focus"}, Tokens([]any{"Focus", 42}))
}

func TestTokensNilAndUnsupported(t *testing.T) {
	assert.Nil(t, Tokens(nil))
	assert.Nil(t, Tokens(42))
}

func TestFrequenciesCountsAcrossValues(t *testing.T) {
	got := Frequencies([]any{"Focus, Teamwork", "focus"})

	assert.Equal(t, []dto.TokenCount{
		{Token: "focus", Count: 2},
		{Token: "teamwork", Count: 1},
	}, got)
}

func TestFrequenciesTiesKeepEncounterOrder(t *testing.T) {
	got := Frequencies([]any{"alpha, beta", "beta, alpha"})

	assert.Equal(t, []dto.TokenCount{
		{Token: "alpha", Count: 2},
		{Token: "beta", Count: 2},
	}, got)
}

func TestTopK(t *testing.T) {
	values := []any{"focus, teamwork", "focus, delivery", "focus"}

	assert.Equal(t, []string{"focus", "teamwork"}, TopK(values, 2))
	assert.Equal(t, []string{"focus", "teamwork", "delivery"}, TopK(values, 10))
	assert.Empty(t, TopK(nil, 5))
}
