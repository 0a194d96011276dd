package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "progress:abc-123", Key("abc-123"))
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name     string
		in       int
		expected int
	}{
		{"negative clamps to zero", -5, 0},
		{"zero stays", 0, 0},
		{"mid range stays", 42, 42},
		{"hundred stays", 100, 100},
		{"above hundred clamps", 250, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampPercent(tt.in))
		})
	}
}
