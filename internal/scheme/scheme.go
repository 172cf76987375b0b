package scheme

import (
	"github.com/yojana-mitra/server/internal/agent/model"
)

// Eligibility is the rule set attached to a scheme. Every field is optional;
// an unset field places no restriction on applicants.
type Eligibility struct {
	MinAge             *int             `json:"min_age,omitempty"`
	MaxAge             *int             `json:"max_age,omitempty"`
	Gender             []model.Gender   `json:"gender,omitempty"`
	Categories         []model.Category `json:"categories,omitempty"`
	MaxIncome          *float64         `json:"max_income,omitempty"`
	States             []string         `json:"states,omitempty"`
	Occupations        []string         `json:"occupations,omitempty"`
	RequiresBPL        *bool            `json:"requires_bpl,omitempty"`
	RequiresDisability *bool            `json:"requires_disability,omitempty"`
	MinLandHolding     *float64         `json:"min_land_holding,omitempty"`
	MaxLandHolding     *float64         `json:"max_land_holding,omitempty"`
}

// Scheme is one government welfare scheme. Bilingual text fields carry the
// EN/HI suffix convention of the catalog source.
type Scheme struct {
	ID                string      `json:"id"`
	NameEN            string      `json:"name_en"`
	NameHI            string      `json:"name_hi"`
	DescriptionEN     string      `json:"description_en,omitempty"`
	DescriptionHI     string      `json:"description_hi,omitempty"`
	Ministry          string      `json:"ministry,omitempty"`
	SchemeType        string      `json:"scheme_type,omitempty"`
	Eligibility       Eligibility `json:"eligibility"`
	BenefitsEN        string      `json:"benefits_en,omitempty"`
	BenefitsHI        string      `json:"benefits_hi,omitempty"`
	RequiredDocuments []string    `json:"required_documents,omitempty"`
	HowToApplyEN      string      `json:"how_to_apply_en,omitempty"`
	HowToApplyHI      string      `json:"how_to_apply_hi,omitempty"`
	OfficialURL       string      `json:"official_url,omitempty"`
	Helpline          string      `json:"helpline,omitempty"`
	Keywords          []string    `json:"keywords,omitempty"`
}

// Match is the per-scheme result of an eligibility run.
type Match struct {
	Scheme          Scheme   `json:"scheme"`
	MatchScore      float64  `json:"match_score"`
	MatchedCriteria []string `json:"matched_criteria"`
	MissingCriteria []string `json:"missing_criteria"`
	MissingUserInfo []string `json:"missing_user_info"`
}

// MatchReport is the full eligibility result: the ranked eligible schemes,
// the total match count and how complete the profile is.
type MatchReport struct {
	Schemes             []Match `json:"schemes"`
	TotalMatches        int     `json:"total_matches"`
	ProfileCompleteness float64 `json:"user_profile_completeness"`
}
