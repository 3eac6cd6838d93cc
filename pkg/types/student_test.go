package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ola nordmann", "Ola Nordmann"},
		{"KARI NORDMANN", "Kari Nordmann"},
		{"øystein ås", "Øystein Ås"},
		{"anne-marie hansen", "Anne-marie Hansen"},
		{"per  olsen", "Per  Olsen"},
		{"", ""},
		{"x", "X"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeClass(t *testing.T) {
	assert.Equal(t, "2STB", NormalizeClass("2stb"))
	assert.Equal(t, "", NormalizeClass(""))
}
