package domain

// CrisisLevel is the ordinal severity derived from keyword scoring.
type CrisisLevel string

const (
	CrisisLevelNone     CrisisLevel = "none"
	CrisisLevelModerate CrisisLevel = "moderate"
	CrisisLevelHigh     CrisisLevel = "high"
	CrisisLevelCritical CrisisLevel = "critical"
)

// Classification is the output of crisis analysis over a message body.
type Classification struct {
	IsCrisis        bool        `json:"isCrisis"`
	Level           CrisisLevel `json:"level"`
	Score           int         `json:"score"`
	MatchedKeywords []string    `json:"matchedKeywords"`
	Categories      []string    `json:"categories"`
	Recommendation  string      `json:"recommendation"`
}
