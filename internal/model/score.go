package model

import (
	"encoding/json"
	"fmt"
)

// ScoreResult is the anonymity scorer's output: a clamped 0-100 score with
// the ordered penalty factors that produced it. Bonuses is always empty
// under current policy and serializes as [] for storage symmetry.
type ScoreResult struct {
	Score     int             `json:"score"`
	Penalties []PenaltyFactor `json:"penalties"`
	Bonuses   []BonusFactor   `json:"bonuses"`
}

// TotalPenalty returns the unclamped sum of all penalty weights.
func (r ScoreResult) TotalPenalty() int {
	total := 0
	for _, p := range r.Penalties {
		total += p.Weight
	}
	return total
}

// RiskLevel classifies an anonymity score for display.
type RiskLevel int

const (
	// RiskLow means the user is well protected (score >= 80).
	RiskLow RiskLevel = iota

	// RiskMedium means meaningful exposure remains (50 <= score < 80).
	RiskMedium

	// RiskHigh means the user is easy to track (score < 50).
	RiskHigh
)

// String returns the display form stored on records: Low, Medium or High.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// RiskLevelFromScore derives the risk level from an anonymity score.
// Thresholds are inclusive on the upper side: 80 is Low, 50 is Medium.
func RiskLevelFromScore(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ParseRiskLevel resolves a stored risk-level string.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case "Low":
		return RiskLow, nil
	case "Medium":
		return RiskMedium, nil
	case "High":
		return RiskHigh, nil
	default:
		return RiskHigh, fmt.Errorf("unknown risk level %q", s)
	}
}

// MarshalJSON encodes the level as its display string.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a display string.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("risk level: %w", err)
	}
	level, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// LegitimacyLevel classifies a legitimacy score for display.
type LegitimacyLevel int

const (
	// LegitimacyHigh means the profile looks like a genuine visitor (>= 80).
	LegitimacyHigh LegitimacyLevel = iota

	// LegitimacyMedium means some automation markers are present (>= 50).
	LegitimacyMedium

	// LegitimacyLow means the profile strongly resembles automation (< 50).
	LegitimacyLow
)

// String returns the display form: High, Medium or Low.
func (l LegitimacyLevel) String() string {
	switch l {
	case LegitimacyHigh:
		return "High"
	case LegitimacyMedium:
		return "Medium"
	case LegitimacyLow:
		return "Low"
	default:
		return "Unknown"
	}
}

// LegitimacyLevelFromScore derives the level from a legitimacy score.
func LegitimacyLevelFromScore(score int) LegitimacyLevel {
	switch {
	case score >= 80:
		return LegitimacyHigh
	case score >= 50:
		return LegitimacyMedium
	default:
		return LegitimacyLow
	}
}

// MarshalJSON encodes the level as its display string.
func (l LegitimacyLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a display string.
func (l *LegitimacyLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("legitimacy level: %w", err)
	}
	switch s {
	case "High":
		*l = LegitimacyHigh
	case "Medium":
		*l = LegitimacyMedium
	case "Low":
		*l = LegitimacyLow
	default:
		return fmt.Errorf("unknown legitimacy level %q", s)
	}
	return nil
}

// LegitimacyFactor is one labeled adjustment to the legitimacy score.
// Delta is negative for deductions and rounded for display; continuous
// deductions accumulate unrounded before the final score is rounded.
type LegitimacyFactor struct {
	Label string `json:"label"`
	Delta int    `json:"delta"`
}

// LegitimacyResult is the legitimacy scorer's output.
type LegitimacyResult struct {
	Score   int                `json:"legitimacy_score"`
	Level   LegitimacyLevel    `json:"legitimacy_level"`
	Factors []LegitimacyFactor `json:"legitimacy_factors"`
}
