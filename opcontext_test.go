// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpContext builds fresh per-call state: unresolved cell, idle guard,
// unique call ID.
func TestNewOpContext(t *testing.T) {
	first := newOpContext[int](opSend, TimeoutAfter(50))
	second := newOpContext[int](opSend, NoTimeout)

	require.NotNil(t, first.future)
	require.NotNil(t, first.guard)
	assert.Equal(t, opSend, first.kind)
	assert.Equal(t, guardIdle, first.guard.current())

	_, resolved := first.future.Value()
	assert.False(t, resolved)

	// Contexts are never shared or reused across calls.
	assert.NotEqual(t, first.callID, second.callID)
	assert.NotSame(t, first.future, second.future)
	assert.NotSame(t, first.guard, second.guard)
}

// Operation names match the event vocabulary used in structured logs.
func TestOpKindString(t *testing.T) {
	tests := []struct {
		// kind is the operation kind under test.
		kind opKind

		// want is the expected name.
		want string
	}{
		{opConnect, "connect"},
		{opAccept, "accept"},
		{opDisconnect, "disconnect"},
		{opSend, "send"},
		{opReceive, "receive"},
		{opKind(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
