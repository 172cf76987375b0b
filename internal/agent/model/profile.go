package model

import (
	"github.com/go-playground/validator/v10"
)

// Gender options accepted in a user profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Category is the social category used by scheme eligibility rules.
type Category string

const (
	CategoryGeneral Category = "general"
	CategorySC      Category = "sc"
	CategoryST      Category = "st"
	CategoryOBC     Category = "obc"
	CategoryEWS     Category = "ews"
)

// UserProfile accumulates facts about the user across a session. Every field
// is independently optional; a nil pointer means "not yet known". The profile
// is only ever mutated through Merge so that contradiction detection sees
// every value change.
type UserProfile struct {
	Name             *string  `json:"name,omitempty"`
	Age              *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender           *Gender  `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	AnnualIncome     *float64 `json:"annual_income,omitempty" validate:"omitempty,gte=0"`
	Category         *Category `json:"category,omitempty" validate:"omitempty,oneof=general sc st obc ews"`
	State            *string  `json:"state,omitempty"`
	District         *string  `json:"district,omitempty"`
	Occupation       *string  `json:"occupation,omitempty"`
	IsBPL            *bool    `json:"is_bpl,omitempty"`
	IsDisabled       *bool    `json:"is_disabled,omitempty"`
	EducationLevel   *string  `json:"education_level,omitempty"`
	MaritalStatus    *string  `json:"marital_status,omitempty"`
	HasBankAccount   *bool    `json:"has_bank_account,omitempty"`
	HasRationCard    *bool    `json:"has_ration_card,omitempty"`
	LandHoldingAcres *float64 `json:"land_holding_acres,omitempty" validate:"omitempty,gte=0"`
}

var validate = validator.New()

// Validate checks field bounds and enum membership for the filled fields.
func (p *UserProfile) Validate() error {
	return validate.Struct(p)
}

// FieldChange records a single profile field written by a merge. Old is nil
// when the field was previously unset.
type FieldChange struct {
	Field string
	Old   any
	New   any
}

// Merge copies every non-nil field of patch into p and reports which fields
// were written. Fields whose incoming value equals the stored value are left
// untouched and unreported, so a change with a non-nil Old is by construction
// a differing value.
func (p *UserProfile) Merge(patch *UserProfile) []FieldChange {
	if patch == nil {
		return nil
	}
	var changes []FieldChange
	mergeField(&changes, "name", &p.Name, patch.Name)
	mergeField(&changes, "age", &p.Age, patch.Age)
	mergeField(&changes, "gender", &p.Gender, patch.Gender)
	mergeField(&changes, "annual_income", &p.AnnualIncome, patch.AnnualIncome)
	mergeField(&changes, "category", &p.Category, patch.Category)
	mergeField(&changes, "state", &p.State, patch.State)
	mergeField(&changes, "district", &p.District, patch.District)
	mergeField(&changes, "occupation", &p.Occupation, patch.Occupation)
	mergeField(&changes, "is_bpl", &p.IsBPL, patch.IsBPL)
	mergeField(&changes, "is_disabled", &p.IsDisabled, patch.IsDisabled)
	mergeField(&changes, "education_level", &p.EducationLevel, patch.EducationLevel)
	mergeField(&changes, "marital_status", &p.MaritalStatus, patch.MaritalStatus)
	mergeField(&changes, "has_bank_account", &p.HasBankAccount, patch.HasBankAccount)
	mergeField(&changes, "has_ration_card", &p.HasRationCard, patch.HasRationCard)
	mergeField(&changes, "land_holding_acres", &p.LandHoldingAcres, patch.LandHoldingAcres)
	return changes
}

func mergeField[T comparable](changes *[]FieldChange, field string, dst **T, src *T) {
	if src == nil {
		return
	}
	if *dst != nil && **dst == *src {
		return
	}
	var old any
	if *dst != nil {
		old = **dst
	}
	*changes = append(*changes, FieldChange{Field: field, Old: old, New: *src})
	v := *src
	*dst = &v
}

// FilledFields returns the non-nil subset of the profile keyed by field name.
func (p *UserProfile) FilledFields() map[string]any {
	filled := make(map[string]any)
	putField(filled, "name", p.Name)
	putField(filled, "age", p.Age)
	putField(filled, "gender", p.Gender)
	putField(filled, "annual_income", p.AnnualIncome)
	putField(filled, "category", p.Category)
	putField(filled, "state", p.State)
	putField(filled, "district", p.District)
	putField(filled, "occupation", p.Occupation)
	putField(filled, "is_bpl", p.IsBPL)
	putField(filled, "is_disabled", p.IsDisabled)
	putField(filled, "education_level", p.EducationLevel)
	putField(filled, "marital_status", p.MaritalStatus)
	putField(filled, "has_bank_account", p.HasBankAccount)
	putField(filled, "has_ration_card", p.HasRationCard)
	putField(filled, "land_holding_acres", p.LandHoldingAcres)
	return filled
}

func putField[T any](m map[string]any, field string, v *T) {
	if v != nil {
		m[field] = *v
	}
}

// MissingFields lists the fields that are still unset.
func (p *UserProfile) MissingFields() []string {
	all := []string{
		"name", "age", "gender", "annual_income", "category", "state",
		"district", "occupation", "is_bpl", "is_disabled", "education_level",
		"marital_status", "has_bank_account", "has_ration_card", "land_holding_acres",
	}
	filled := p.FilledFields()
	missing := make([]string, 0, len(all))
	for _, f := range all {
		if _, ok := filled[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Ptr returns a pointer to v; a small helper for building partial profiles.
func Ptr[T any](v T) *T {
	return &v
}
