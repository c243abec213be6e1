package components

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToasts_PushAndRemove(t *testing.T) {
	toasts := NewToasts(10 * time.Millisecond)

	id1, cmd := toasts.Push("saved", ToastInfo)
	require.NotNil(t, cmd)
	id2, _ := toasts.Push("failed", ToastError)

	_, err := uuid.Parse(id1)
	assert.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	require.Len(t, toasts.Items(), 2)

	assert.True(t, toasts.Remove(id1))
	assert.False(t, toasts.Remove(id1))
	require.Len(t, toasts.Items(), 1)
	assert.Equal(t, "failed", toasts.Items()[0].Message)
	assert.Equal(t, ToastError, toasts.Items()[0].Kind)
}

func TestToasts_ExpiryMessageCarriesID(t *testing.T) {
	toasts := NewToasts(time.Millisecond)
	id, cmd := toasts.Push("hello", ToastInfo)

	msg := cmd()
	expired, ok := msg.(ToastExpiredMsg)
	require.True(t, ok)
	assert.Equal(t, id, expired.ID)
}

func TestToasts_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultToastTimeout, NewToasts(0).timeout)
}

func TestToasts_View(t *testing.T) {
	toasts := NewToasts(0)
	assert.Equal(t, "", toasts.View(80))

	toasts.Push("network down", ToastError)
	assert.Contains(t, toasts.View(80), "network down")
}
