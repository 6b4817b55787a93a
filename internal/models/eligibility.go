// internal/models/eligibility.go
package models

type EligibilityLevel string

const (
	LevelEligible          EligibilityLevel = "eligible"
	LevelPartiallyEligible EligibilityLevel = "partially_eligible"
	LevelNotEligible       EligibilityLevel = "not_eligible"
)

// EligibilitySnapshot is the authoritative, server-computed readiness result.
// It is replaced wholesale after each refresh, never patched locally, and
// overrides any client-inferred risk classification once present.
type EligibilitySnapshot struct {
	IsEligible          bool             `json:"isEligible"`
	Level               EligibilityLevel `json:"eligibilityLevel"`
	Score               int              `json:"score"`
	RequirementsMet     []string         `json:"requirementsMet,omitempty"`
	RequirementsMissing []string         `json:"requirementsMissing,omitempty"`
	Recommendations     []string         `json:"recommendations,omitempty"`
}

// ConservativeSnapshot is the default used while the scoring authority is
// unavailable: not eligible, score zero.
func ConservativeSnapshot() EligibilitySnapshot {
	return EligibilitySnapshot{
		IsEligible: false,
		Level:      LevelNotEligible,
		Score:      0,
	}
}

type CaseType string

const (
	CaseInNatura   CaseType = "in_natura"
	CaseNeedsHuman CaseType = "needs_human"
)

// RiskProfile is the client-inferred, provisional classification derived
// purely from onboarding answers. Used only until an authoritative
// EligibilitySnapshot exists.
type RiskProfile struct {
	Flags    []string `json:"flags"`
	CaseType CaseType `json:"caseType"`
}

// HasFlag reports whether the profile carries the given risk flag.
func (r RiskProfile) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
