// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallID(t *testing.T) {
	callID := NewCallID()

	// Should be a valid UUID string
	parsed, err := uuid.Parse(callID)
	require.NoError(t, err)

	// Should be version 7 (time-ordered)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewCallIDUniqueness(t *testing.T) {
	// Generate multiple call IDs and verify they're all unique
	const count = 100
	seen := make(map[string]struct{}, count)

	for range count {
		callID := NewCallID()
		_, duplicate := seen[callID]
		require.False(t, duplicate, "duplicate call ID generated: %s", callID)
		seen[callID] = struct{}{}
	}
}
