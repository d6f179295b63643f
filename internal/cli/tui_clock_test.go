package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/gymform/internal/survey"
	"github.com/alexanderramin/gymform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUIClock_FiresOnlyLiveTimers(t *testing.T) {
	c := newTUIClock(func() time.Time { return testutil.ReferenceNow })
	assert.Equal(t, testutil.ReferenceNow, c.Now())

	var fired []string
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	first := c.lastID()
	cancel := c.AfterFunc(time.Second, func() { fired = append(fired, "b") })
	second := c.lastID()

	assert.Len(t, c.takeCmds(), 2)
	assert.Empty(t, c.takeCmds(), "commands are handed over once")

	cancel()
	assert.False(t, c.fire(second))
	assert.True(t, c.fire(first))
	assert.False(t, c.fire(first), "a timer fires once")
	assert.Equal(t, []string{"a"}, fired)
}

func TestTUIClock_DrivesNavigatorAutoAdvance(t *testing.T) {
	catalog := survey.DefaultCatalog()
	fd := testutil.NewTestFormData()
	session := survey.NewSession(fd, nil)
	c := newTUIClock(time.Now)
	nav := survey.NewNavigator(catalog, survey.NewValidator(catalog, time.Now), session, survey.WithClock(c))

	var got survey.Result
	nav.ScheduleAutoAdvance(time.Minute, func(res survey.Result) { got = res })
	require.True(t, nav.AutoAdvancePending())
	require.Len(t, c.takeCmds(), 1)

	require.True(t, c.fire(c.lastID()))
	assert.Equal(t, survey.OutcomeAdvanced, got.Outcome)
	assert.Equal(t, 2, nav.Step())
}
