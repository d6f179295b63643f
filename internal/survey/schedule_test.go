package survey

import (
	"testing"
	"time"

	"github.com/alexanderramin/gymform/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestManualClock_FiresInDeadlineOrder(t *testing.T) {
	c := NewManualClock(testutil.ReferenceNow)
	var order []string

	c.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, c.Pending())
	assert.Equal(t, testutil.ReferenceNow.Add(time.Second+15*time.Millisecond), c.Now())
}

func TestManualClock_CancelPreventsFiring(t *testing.T) {
	c := NewManualClock(testutil.ReferenceNow)
	fired := false

	cancel := c.AfterFunc(time.Millisecond, func() { fired = true })
	cancel()
	cancel()
	c.Advance(time.Second)

	assert.False(t, fired)
}

func TestTask_CancelAfterScheduleNeverRuns(t *testing.T) {
	c := NewManualClock(testutil.ReferenceNow)
	task := NewTask(c)
	runs := 0

	task.Schedule(time.Second, func() { runs++ })
	assert.True(t, task.Pending())
	task.Cancel()
	assert.False(t, task.Pending())
	c.Advance(2 * time.Second)

	assert.Zero(t, runs)
}

func TestTask_ScheduleReplacesPending(t *testing.T) {
	c := NewManualClock(testutil.ReferenceNow)
	task := NewTask(c)
	var got []string

	task.Schedule(time.Second, func() { got = append(got, "first") })
	task.Schedule(time.Second, func() { got = append(got, "second") })
	c.Advance(time.Second)

	assert.Equal(t, []string{"second"}, got)
	assert.False(t, task.Pending())
}

func TestTask_RealClockCancel(t *testing.T) {
	task := NewTask(RealClock{})
	fired := make(chan struct{}, 1)

	task.Schedule(time.Hour, func() { fired <- struct{}{} })
	task.Cancel()

	select {
	case <-fired:
		t.Fatal("cancelled task fired")
	default:
	}
}
