package scheme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yojana-mitra/server/internal/agent/model"
)

// completenessFields are the key profile fields counted toward the
// completeness ratio reported with every match run.
var completenessFields = []string{"age", "annual_income", "category", "state", "gender"}

// maxReportedMatches caps the ranked list returned by a match run.
const maxReportedMatches = 10

// Engine evaluates a user profile against the scheme catalog. It holds no
// mutable state and is safe to share across sessions.
type Engine struct {
	catalog *Catalog
}

// NewEngine returns an engine over the given catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Match runs every catalog scheme against the profile and returns the ranked
// eligible schemes. Sorting is stable, so equally scored schemes keep catalog
// order and repeated runs over the same inputs yield identical lists.
func (e *Engine) Match(profile *model.UserProfile) *MatchReport {
	if profile == nil {
		profile = &model.UserProfile{}
	}

	var eligible []Match
	for _, s := range e.catalog.Schemes() {
		m, ok := checkEligibility(profile, s)
		if ok {
			eligible = append(eligible, m)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].MatchScore > eligible[j].MatchScore
	})

	total := len(eligible)
	if len(eligible) > maxReportedMatches {
		eligible = eligible[:maxReportedMatches]
	}
	if eligible == nil {
		eligible = []Match{}
	}

	return &MatchReport{
		Schemes:             eligible,
		TotalMatches:        total,
		ProfileCompleteness: completeness(profile),
	}
}

// checkEligibility evaluates one scheme. Each populated criterion lands in
// exactly one of matched, missing (present but violating) or missingUserInfo
// (profile field absent). Absent fields are excluded from the score
// denominator so partial profiles are not penalised for what they omit.
func checkEligibility(user *model.UserProfile, s Scheme) (Match, bool) {
	el := s.Eligibility
	var matched, missing, missingUserInfo []string

	satisfied := 0
	evaluable := 0
	totalCriteria := 0

	if el.MinAge != nil || el.MaxAge != nil {
		totalCriteria++
		if user.Age != nil {
			evaluable++
			minAge, maxAge := 0, 150
			if el.MinAge != nil {
				minAge = *el.MinAge
			}
			if el.MaxAge != nil {
				maxAge = *el.MaxAge
			}
			if minAge <= *user.Age && *user.Age <= maxAge {
				matched = append(matched, "age")
				satisfied++
			} else {
				missing = append(missing, fmt.Sprintf("age: %d-%d required", minAge, maxAge))
			}
		} else {
			missingUserInfo = append(missingUserInfo, "age")
		}
	}

	if el.MaxIncome != nil {
		totalCriteria++
		if user.AnnualIncome != nil {
			evaluable++
			if *user.AnnualIncome <= *el.MaxIncome {
				matched = append(matched, "income")
				satisfied++
			} else {
				missing = append(missing, fmt.Sprintf("income: max %.0f required", *el.MaxIncome))
			}
		} else {
			missingUserInfo = append(missingUserInfo, "annual_income")
		}
	}

	if len(el.Categories) > 0 {
		totalCriteria++
		if user.Category != nil {
			evaluable++
			if containsCategory(el.Categories, *user.Category) {
				matched = append(matched, "category")
				satisfied++
			} else {
				missing = append(missing, fmt.Sprintf("category: %s required", joinCategories(el.Categories)))
			}
		} else {
			missingUserInfo = append(missingUserInfo, "category")
		}
	}

	if len(el.States) > 0 {
		totalCriteria++
		if user.State != nil {
			evaluable++
			if containsFold(el.States, *user.State) {
				matched = append(matched, "state")
				satisfied++
			} else {
				missing = append(missing, fmt.Sprintf("state: %s required", strings.Join(el.States, ", ")))
			}
		} else {
			missingUserInfo = append(missingUserInfo, "state")
		}
	}

	if len(el.Gender) > 0 {
		totalCriteria++
		if user.Gender != nil {
			evaluable++
			if containsGender(el.Gender, *user.Gender) {
				matched = append(matched, "gender")
				satisfied++
			} else {
				missing = append(missing, fmt.Sprintf("gender: %s required", joinGenders(el.Gender)))
			}
		} else {
			missingUserInfo = append(missingUserInfo, "gender")
		}
	}

	if el.RequiresBPL != nil && *el.RequiresBPL {
		totalCriteria++
		if user.IsBPL != nil {
			evaluable++
			if *user.IsBPL {
				matched = append(matched, "bpl_status")
				satisfied++
			} else {
				missing = append(missing, "BPL card required")
			}
		} else {
			missingUserInfo = append(missingUserInfo, "is_bpl")
		}
	}

	// Schemes with no checkable criteria get a permissive middle score and
	// admit everyone; otherwise eligibility requires no violations and at
	// least one positive match.
	score := 0.5
	if evaluable > 0 {
		score = float64(satisfied) / float64(evaluable)
	}
	isEligible := len(missing) == 0 && (satisfied > 0 || totalCriteria == 0)

	return Match{
		Scheme:          s,
		MatchScore:      score,
		MatchedCriteria: emptyIfNil(matched),
		MissingCriteria: emptyIfNil(missing),
		MissingUserInfo: emptyIfNil(missingUserInfo),
	}, isEligible
}

// completeness is the filled ratio over the key fields used for matching.
func completeness(user *model.UserProfile) float64 {
	filled := user.FilledFields()
	n := 0
	for _, f := range completenessFields {
		if _, ok := filled[f]; ok {
			n++
		}
	}
	return float64(n) / float64(len(completenessFields))
}

func containsCategory(set []model.Category, c model.Category) bool {
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

func containsGender(set []model.Gender, g model.Gender) bool {
	for _, v := range set {
		if v == g {
			return true
		}
	}
	return false
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func joinCategories(set []model.Category) string {
	parts := make([]string, len(set))
	for i, c := range set {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinGenders(set []model.Gender) string {
	parts := make([]string, len(set))
	for i, g := range set {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
