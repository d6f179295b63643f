package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Invariants(t *testing.T) {
	c, err := NewCatalog(DefaultSteps())
	require.NoError(t, err)
	assert.Equal(t, 33, c.Total())
	assert.Equal(t, []Category{
		CategoryBasicInfo, CategoryBodyAssessment, CategoryMeasurements,
		CategoryActivity, CategoryNutrition, CategoryLifestyle, CategoryFinal,
	}, c.Categories())

	for s := 1; s <= c.Total(); s++ {
		cat, ok := c.StepCategory(s)
		assert.True(t, ok, "step %d should have a category", s)
		assert.NotEmpty(t, cat)
		assert.GreaterOrEqual(t, c.LocalStepNumber(s), 0, "step %d", s)

		step, ok := c.Step(s)
		require.True(t, ok)
		assert.Equal(t, s, step.ID)
		assert.Equal(t, step.RequiresValidation, step.Rule() != nil, "step %d", s)
		if step.AutoAdvance {
			assert.Equal(t, KindSingle, step.Kind, "only single-choice steps auto-advance (step %d)", s)
		}
	}
}

func TestCatalog_CategoryRanges(t *testing.T) {
	c := DefaultCatalog()
	cases := []struct {
		cat   Category
		start int
	}{
		{CategoryBasicInfo, 1},
		{CategoryBodyAssessment, 5},
		{CategoryMeasurements, 10},
		{CategoryActivity, 13},
		{CategoryNutrition, 20},
		{CategoryLifestyle, 26},
		{CategoryFinal, 30},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.start, c.CategoryStart(tc.cat), tc.cat)
		assert.Equal(t, 0, c.LocalStepNumber(tc.start), tc.cat)
	}
	assert.Equal(t, 3, c.LocalStepNumber(4))
	assert.Equal(t, 1, c.LocalStepNumber(StepPersonalInfo))
}

func TestCatalog_OutOfRange(t *testing.T) {
	c := DefaultCatalog()
	for _, s := range []int{-1, 0, 34, 9999} {
		_, ok := c.StepCategory(s)
		assert.False(t, ok, "step %d", s)
		assert.Equal(t, -1, c.LocalStepNumber(s), "step %d", s)
		_, ok = c.Step(s)
		assert.False(t, ok)
	}
}

func TestCatalog_Clamp(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 1, c.Clamp(9999))
	assert.Equal(t, 1, c.Clamp(0))
	assert.Equal(t, 1, c.Clamp(-4))
	assert.Equal(t, 12, c.Clamp(12))
	assert.Equal(t, 33, c.Clamp(33))
}

func TestNewCatalog_RejectsMalformedTables(t *testing.T) {
	t.Run("gap", func(t *testing.T) {
		_, err := NewCatalog([]Step{
			info(1, CategoryBasicInfo, "a", ""),
			info(3, CategoryBasicInfo, "b", ""),
		})
		assert.ErrorContains(t, err, "want 2")
	})
	t.Run("split category", func(t *testing.T) {
		_, err := NewCatalog([]Step{
			info(1, CategoryBasicInfo, "a", ""),
			info(2, CategoryFinal, "b", ""),
			info(3, CategoryBasicInfo, "c", ""),
		})
		assert.ErrorContains(t, err, "not contiguous")
	})
	t.Run("validation flag without rule", func(t *testing.T) {
		_, err := NewCatalog([]Step{
			{ID: 1, Category: CategoryBasicInfo, Name: "a", RequiresValidation: true},
		})
		assert.ErrorContains(t, err, "disagrees")
	})
	t.Run("empty", func(t *testing.T) {
		_, err := NewCatalog(nil)
		assert.Error(t, err)
	})
}

func TestStep_OptionLabel(t *testing.T) {
	s, ok := DefaultCatalog().Step(2)
	require.True(t, ok)
	assert.True(t, s.HasOption("female"))
	assert.False(t, s.HasOption("other"))
	assert.Equal(t, "Female", s.OptionLabel("female"))
	assert.Equal(t, "other", s.OptionLabel("other"))
}
