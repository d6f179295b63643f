package survey

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newStringDispatcher() *Dispatcher[string] {
	d := NewDispatcher[string](DefaultCatalog(), nil)
	for _, cat := range DefaultCatalog().Categories() {
		d.Register(cat, func(s Step, local int) string {
			return fmt.Sprintf("%s/%d/%s", s.Category, local, s.Name)
		})
	}
	return d
}

func TestDispatcher_EveryStepRenders(t *testing.T) {
	d := newStringDispatcher()
	for s := 1; s <= 33; s++ {
		out, ok := d.Dispatch(s)
		assert.True(t, ok, "step %d", s)
		assert.NotEmpty(t, out)
	}

	out, _ := d.Dispatch(13)
	assert.Equal(t, "activity/0/activities", out)
	out, _ = d.Dispatch(StepPersonalInfo)
	assert.Equal(t, "final/1/personal_info", out)
}

func TestDispatcher_OutOfRangeRendersNothing(t *testing.T) {
	d := newStringDispatcher()
	for _, s := range []int{0, -1, 34, 9999} {
		out, ok := d.Dispatch(s)
		assert.False(t, ok, "step %d", s)
		assert.Empty(t, out)
	}
}

func TestDispatcher_UnregisteredCategory(t *testing.T) {
	d := NewDispatcher[string](DefaultCatalog(), nil)
	d.Register(CategoryBasicInfo, func(s Step, _ int) string { return s.Name })

	out, ok := d.Dispatch(1)
	assert.True(t, ok)
	assert.Equal(t, "age", out)

	out, ok = d.Dispatch(5)
	assert.False(t, ok)
	assert.Empty(t, out)
}
