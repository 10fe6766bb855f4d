package flickr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPerPage(t *testing.T) {
	tests := []struct {
		name     string
		perPage  int
		expected int
	}{
		{"zero defaults to max", 0, MaxPerPage},
		{"negative defaults to max", -1, MaxPerPage},
		{"over max clamps", 501, MaxPerPage},
		{"max passes through", 500, 500},
		{"small value passes through", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampPerPage(tt.perPage))
		})
	}
}

func TestIsValidUserID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"me", true},
		{"87729121@N00", true},
		{"12345678@N01", true},
		{"1@N00", true},
		{"", false},
		{"Me", false},
		{"87729121", false},
		{"@N00", false},
		{"87729121@", false},
		{"87729121@X00", false},
		{"87729121@N", false},
		{"abc@N00", false},
		{"87729121@N0a", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidUserID(tt.id))
		})
	}
}
