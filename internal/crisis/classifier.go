package crisis

import (
	"strings"

	"github.com/spec-kit/peer-support/internal/domain"
)

// Classifier scores free text against a weighted keyword table.
type Classifier struct {
	table []KeywordCategory
}

// NewClassifier builds a classifier over the built-in table.
func NewClassifier() *Classifier {
	return &Classifier{table: DefaultTable()}
}

// NewClassifierWithTable builds a classifier over a custom table. Keywords
// are lowercased on the way in.
func NewClassifierWithTable(table []KeywordCategory) *Classifier {
	normalized := make([]KeywordCategory, 0, len(table))
	for _, cat := range table {
		keywords := make([]string, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized = append(normalized, KeywordCategory{Name: cat.Name, Weight: cat.Weight, Keywords: keywords})
	}
	return &Classifier{table: normalized}
}

// Analyze classifies text. Every matching (keyword, category) pair adds the
// category weight, so several hits in one category compound.
func (c *Classifier) Analyze(text string) domain.Classification {
	lowered := strings.ToLower(text)

	score := 0
	matched := []string{}
	categories := []string{}
	seen := make(map[string]struct{})

	for _, cat := range c.table {
		for _, kw := range cat.Keywords {
			if !strings.Contains(lowered, kw) {
				continue
			}
			score += cat.Weight
			matched = append(matched, kw)
			if _, ok := seen[cat.Name]; !ok {
				seen[cat.Name] = struct{}{}
				categories = append(categories, cat.Name)
			}
		}
	}

	level := LevelForScore(score)
	return domain.Classification{
		IsCrisis:        level != domain.CrisisLevelNone,
		Level:           level,
		Score:           score,
		MatchedKeywords: matched,
		Categories:      categories,
		Recommendation:  Recommendation(level),
	}
}

// LevelForScore maps a severity score to a crisis level, highest threshold first.
func LevelForScore(score int) domain.CrisisLevel {
	switch {
	case score >= thresholdCritical:
		return domain.CrisisLevelCritical
	case score >= thresholdHigh:
		return domain.CrisisLevelHigh
	case score >= thresholdModerate:
		return domain.CrisisLevelModerate
	default:
		return domain.CrisisLevelNone
	}
}

// Recommendation returns the canned guidance for a level.
func Recommendation(level domain.CrisisLevel) string {
	if rec, ok := recommendations[string(level)]; ok {
		return rec
	}
	return recommendations[string(domain.CrisisLevelNone)]
}
