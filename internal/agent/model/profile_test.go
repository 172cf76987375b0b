package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_MergeReportsChanges(t *testing.T) {
	profile := &UserProfile{}

	changes := profile.Merge(&UserProfile{
		Age:   Ptr(35),
		State: Ptr("Bihar"),
	})
	require.Len(t, changes, 2)
	assert.Equal(t, "age", changes[0].Field)
	assert.Nil(t, changes[0].Old)
	assert.Equal(t, 35, changes[0].New)
	assert.Equal(t, "state", changes[1].Field)
}

func TestUserProfile_MergeOverwriteKeepsOldValue(t *testing.T) {
	profile := &UserProfile{Age: Ptr(35)}

	changes := profile.Merge(&UserProfile{Age: Ptr(40)})
	require.Len(t, changes, 1)
	assert.Equal(t, 35, changes[0].Old)
	assert.Equal(t, 40, changes[0].New)
	assert.Equal(t, 40, *profile.Age)
}

func TestUserProfile_MergeEqualValueIsNoop(t *testing.T) {
	profile := &UserProfile{Age: Ptr(35)}

	changes := profile.Merge(&UserProfile{Age: Ptr(35)})
	assert.Empty(t, changes)
}

func TestUserProfile_MergeNilPatch(t *testing.T) {
	profile := &UserProfile{Age: Ptr(35)}
	assert.Empty(t, profile.Merge(nil))
	assert.Equal(t, 35, *profile.Age)
}

func TestUserProfile_MergeIgnoresNilFields(t *testing.T) {
	profile := &UserProfile{Age: Ptr(35), State: Ptr("Bihar")}

	changes := profile.Merge(&UserProfile{Occupation: Ptr("किसान")})
	require.Len(t, changes, 1)
	assert.Equal(t, "occupation", changes[0].Field)
	assert.Equal(t, 35, *profile.Age)
	assert.Equal(t, "Bihar", *profile.State)
}

func TestUserProfile_FilledAndMissingFields(t *testing.T) {
	profile := &UserProfile{
		Age:      Ptr(35),
		Category: Ptr(CategoryOBC),
	}

	filled := profile.FilledFields()
	assert.Equal(t, 35, filled["age"])
	assert.Equal(t, CategoryOBC, filled["category"])
	assert.NotContains(t, filled, "state")

	missing := profile.MissingFields()
	assert.Contains(t, missing, "state")
	assert.Contains(t, missing, "annual_income")
	assert.NotContains(t, missing, "age")
}

func TestUserProfile_Validate(t *testing.T) {
	valid := &UserProfile{
		Age:      Ptr(35),
		Gender:   Ptr(GenderFemale),
		Category: Ptr(CategorySC),
	}
	assert.NoError(t, valid.Validate())

	tooOld := &UserProfile{Age: Ptr(200)}
	assert.Error(t, tooOld.Validate())

	badGender := &UserProfile{Gender: Ptr(Gender("unknown"))}
	assert.Error(t, badGender.Validate())

	negativeIncome := &UserProfile{AnnualIncome: Ptr(-1.0)}
	assert.Error(t, negativeIncome.Validate())

	empty := &UserProfile{}
	assert.NoError(t, empty.Validate())
}
