package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "Zero", value: 0, want: "R$ 0,00"},
		{name: "Milhar", value: 1234.56, want: "R$ 1.234,56"},
		{name: "Milhões com arredondamento", value: 1234567.891, want: "R$ 1.234.567,89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(tt.value))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.234", FormatNumber(1234))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50.0, Percent(5, 10))
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 100.0, Percent(20, 10))
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(21)
	require.NoError(t, err)
	assert.Len(t, id, 21)
	assert.Regexp(t, "^[A-Za-z0-9]+$", id)
}
