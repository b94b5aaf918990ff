package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagFilter_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		tag      string
		want     bool
	}{
		{"no patterns matches everything", nil, "Ntfx", true},
		{"exact match", []string{"Pool"}, "Pool", true},
		{"exact mismatch", []string{"Pool"}, "Ntfx", false},
		{"star suffix", []string{"Ntf*"}, "Ntfx", true},
		{"star suffix mismatch", []string{"Ntf*"}, "MmSt", false},
		{"single char wildcard", []string{"?ool"}, "Pool", true},
		{"multiple patterns are OR-ed", []string{"Mm*", "Ntf*"}, "MmSt", true},
		{"case sensitive", []string{"ntf*"}, "Ntfx", false},
		{"trailing space in tag", []string{"Irp*"}, "Irp ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewTagFilter(tt.patterns...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.Match(tt.tag))
		})
	}
}

func TestNewTagFilter_InvalidPattern(t *testing.T) {
	_, err := NewTagFilter("Ntf*", "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"["`)
}

func TestTagFilter_Patterns(t *testing.T) {
	filter, err := NewTagFilter("Mm*", "Ntf*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mm*", "Ntf*"}, filter.Patterns())
}
