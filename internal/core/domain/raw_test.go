package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestChangeType_String tests change type names
func TestChangeType_String(t *testing.T) {
	tests := []struct {
		change   ChangeType
		expected string
	}{
		{ChangeCreated, "created"},
		{ChangeUpdated, "updated"},
		{ChangeDeleted, "deleted"},
		{ChangeType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.change.String())
		})
	}
}
