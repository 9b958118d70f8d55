package crisis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/peer-support/internal/domain"
)

func TestAnalyzeExampleScenario(t *testing.T) {
	c := NewClassifier()

	got := c.Analyze("me siento desesperado y quiero matarme")

	assert.True(t, got.IsCrisis)
	assert.Equal(t, domain.CrisisLevelCritical, got.Level)
	assert.Equal(t, 15, got.Score)
	assert.ElementsMatch(t, []string{"matarme", "desesperado"}, got.MatchedKeywords)
	assert.ElementsMatch(t, []string{CategorySuicide, CategorySevereDistress}, got.Categories)
	assert.Equal(t, Recommendation(domain.CrisisLevelCritical), got.Recommendation)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	c := NewClassifier()
	text := "Ya no aguanto, pienso en la muerte y en cortarme"

	first := c.Analyze(text)
	second := c.Analyze(text)

	assert.Equal(t, first, second)
}

func TestAnalyzeSingleCategoryLevels(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		input string
		score int
		level domain.CrisisLevel
	}{
		{name: "no keywords", input: "hoy me fue bien en el examen", score: 0, level: domain.CrisisLevelNone},
		{name: "one severe distress keyword", input: "estoy desesperada", score: 5, level: domain.CrisisLevelModerate},
		{name: "one death keyword", input: "no dejo de pensar en la muerte", score: 7, level: domain.CrisisLevelHigh},
		{name: "one self harm keyword", input: "a veces quiero cortarme", score: 8, level: domain.CrisisLevelHigh},
		{name: "one violence keyword", input: "quiero golpear a alguien", score: 9, level: domain.CrisisLevelHigh},
		{name: "two severe distress keywords", input: "sin salida y sin esperanza", score: 10, level: domain.CrisisLevelCritical},
		{name: "suicide keyword", input: "pienso en el suicidio", score: 10, level: domain.CrisisLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Analyze(tt.input)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.level, got.Level)
			assert.Equal(t, tt.level != domain.CrisisLevelNone, got.IsCrisis)
		})
	}
}

func TestLevelForScoreBoundaries(t *testing.T) {
	tests := []struct {
		score int
		level domain.CrisisLevel
	}{
		{score: 15, level: domain.CrisisLevelCritical},
		{score: 10, level: domain.CrisisLevelCritical},
		{score: 9, level: domain.CrisisLevelHigh},
		{score: 7, level: domain.CrisisLevelHigh},
		{score: 6, level: domain.CrisisLevelModerate},
		{score: 5, level: domain.CrisisLevelModerate},
		{score: 4, level: domain.CrisisLevelNone},
		{score: 0, level: domain.CrisisLevelNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestAnalyzeIsCaseInsensitive(t *testing.T) {
	got := NewClassifier().Analyze("ME SIENTO DESESPERADO")
	assert.Equal(t, 5, got.Score)
	assert.Equal(t, []string{"desesperado"}, got.MatchedKeywords)
}

func TestAnalyzeMatchesInsideLongerWords(t *testing.T) {
	got := NewClassifier().Analyze("lo dijo desesperadamente")
	assert.Equal(t, domain.CrisisLevelModerate, got.Level)
	assert.Equal(t, []string{"desesperada"}, got.MatchedKeywords)
}

func TestAnalyzeCompoundsWithinCategory(t *testing.T) {
	got := NewClassifier().Analyze("habría un funeral, un velorio y hablaban de la muerte")

	assert.Equal(t, 21, got.Score)
	assert.Equal(t, []string{"muerte", "funeral", "velorio"}, got.MatchedKeywords)
	assert.Equal(t, []string{CategoryDeath}, got.Categories)
}

func TestAnalyzeOverlappingKeywordsBothCount(t *testing.T) {
	// "quiero morir" also contains the death keyword "morir".
	got := NewClassifier().Analyze("quiero morir")

	assert.Equal(t, 17, got.Score)
	assert.Equal(t, []string{"quiero morir", "morir"}, got.MatchedKeywords)
	assert.Equal(t, []string{CategorySuicide, CategoryDeath}, got.Categories)
}

func TestAnalyzeEmptyTextReturnsEmptySlices(t *testing.T) {
	got := NewClassifier().Analyze("")

	require.NotNil(t, got.MatchedKeywords)
	require.NotNil(t, got.Categories)
	assert.Empty(t, got.MatchedKeywords)
	assert.False(t, got.IsCrisis)
	assert.Equal(t, Recommendation(domain.CrisisLevelNone), got.Recommendation)
}

func TestNewClassifierWithTableLowercasesKeywords(t *testing.T) {
	c := NewClassifierWithTable([]KeywordCategory{
		{Name: "custom", Weight: 6, Keywords: []string{"  Alerta ", ""}},
	})

	got := c.Analyze("ALERTA roja")

	assert.Equal(t, 6, got.Score)
	assert.Equal(t, []string{"alerta"}, got.MatchedKeywords)
	assert.Equal(t, domain.CrisisLevelModerate, got.Level)
}

func TestDefaultTableIsCopy(t *testing.T) {
	table := DefaultTable()
	table[0].Keywords[0] = "mutated"

	assert.Equal(t, "suicidio", DefaultTable()[0].Keywords[0])
}

func TestRecommendationPerLevel(t *testing.T) {
	levels := []domain.CrisisLevel{
		domain.CrisisLevelNone,
		domain.CrisisLevelModerate,
		domain.CrisisLevelHigh,
		domain.CrisisLevelCritical,
	}
	seen := map[string]bool{}
	for _, level := range levels {
		rec := Recommendation(level)
		assert.NotEmpty(t, rec)
		seen[rec] = true
	}
	assert.Len(t, seen, len(levels))
	assert.Equal(t, Recommendation(domain.CrisisLevelNone), Recommendation("bogus"))
}
