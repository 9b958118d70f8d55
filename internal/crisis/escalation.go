package crisis

import (
	"fmt"
	"strings"

	"github.com/spec-kit/peer-support/internal/domain"
)

// EscalationPolicy decides the effective urgency of a submission.
type EscalationPolicy func(declared domain.Urgency, c domain.Classification) domain.Urgency

const (
	PolicyLiteral   = "literal"
	PolicyMonotonic = "monotonic"
)

// LiteralPolicy applies the escalation table first-match-wins:
// critical forces urgente, high forces alta, moderate lifts baja to media.
// A high classification replaces a declared urgente with alta.
func LiteralPolicy(declared domain.Urgency, c domain.Classification) domain.Urgency {
	switch {
	case c.Level == domain.CrisisLevelCritical:
		return domain.UrgencyUrgent
	case c.Level == domain.CrisisLevelHigh:
		return domain.UrgencyHigh
	case c.Level == domain.CrisisLevelModerate && declared == domain.UrgencyLow:
		return domain.UrgencyMedium
	default:
		return declared
	}
}

// MonotonicPolicy is LiteralPolicy that never returns less than declared.
func MonotonicPolicy(declared domain.Urgency, c domain.Classification) domain.Urgency {
	adjusted := LiteralPolicy(declared, c)
	if adjusted.Rank() < declared.Rank() {
		return declared
	}
	return adjusted
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (EscalationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyLiteral:
		return LiteralPolicy, nil
	case PolicyMonotonic:
		return MonotonicPolicy, nil
	default:
		return nil, fmt.Errorf("unknown escalation policy %q", name)
	}
}

// Escalator adjusts declared urgency from a classification.
type Escalator struct {
	policy EscalationPolicy
}

// NewEscalator builds an escalator; a nil policy means LiteralPolicy.
func NewEscalator(policy EscalationPolicy) *Escalator {
	if policy == nil {
		policy = LiteralPolicy
	}
	return &Escalator{policy: policy}
}

// Adjust returns the effective urgency.
func (e *Escalator) Adjust(declared domain.Urgency, c domain.Classification) domain.Urgency {
	return e.policy(declared, c)
}
