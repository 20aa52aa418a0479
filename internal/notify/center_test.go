package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_NotifyReplacesCurrent(t *testing.T) {
	c := NewCenter(time.Minute)

	first := c.Notify("saved", KindSuccess)
	second := c.Notify("failed", KindError)
	assert.NotEqual(t, first.ID, second.ID)

	current := c.Current()
	require.NotNil(t, current)
	assert.Equal(t, "failed", current.Message)
	assert.Equal(t, KindError, current.Kind)
}

func TestCenter_AutoDismiss(t *testing.T) {
	c := NewCenter(20 * time.Millisecond)
	c.Notify("transient", KindInfo)

	require.Eventually(t, func() bool {
		return c.Current() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestCenter_NewNotificationCancelsPendingDismissal(t *testing.T) {
	c := NewCenter(30 * time.Millisecond)
	c.Notify("first", KindInfo)

	// replace just before the first would dismiss
	time.Sleep(20 * time.Millisecond)
	c.Notify("second", KindInfo)

	// past the first notification's deadline the second must survive
	time.Sleep(20 * time.Millisecond)
	current := c.Current()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)

	// and eventually dismiss on its own schedule
	require.Eventually(t, func() bool {
		return c.Current() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestCenter_ManualDismiss(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Notify("sticky", KindWarning)
	c.Dismiss()
	assert.Nil(t, c.Current())
}

func TestCenter_ListenersObserveChanges(t *testing.T) {
	c := NewCenter(time.Minute)

	var events []*Notification
	c.Subscribe(func(n *Notification) { events = append(events, n) })

	c.Notify("hello", KindInfo)
	c.Dismiss()

	require.Len(t, events, 2)
	assert.Equal(t, "hello", events[0].Message)
	assert.Nil(t, events[1])
}

func TestCenter_CurrentReturnsCopy(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Notify("original", KindInfo)

	snapshot := c.Current()
	snapshot.Message = "mutated"

	assert.Equal(t, "original", c.Current().Message)
}
