package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moonlight/pkg/contracts/domain"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{"Benin", "Sierra Leone", "Togo"}, r.Names())

	byName := make(map[string]domain.Country)
	for _, c := range r.Countries() {
		byName[c.Name] = c
	}
	assert.Equal(t, "BJ", byName["Benin"].Code)
	assert.Equal(t, "SL", byName["Sierra Leone"].Code)
	assert.Equal(t, "TG", byName["Togo"].Code)
	assert.Equal(t, "sierraleone_clean.csv", byName["Sierra Leone"].CleanFile)
	assert.Equal(t, "sierraleone.csv", byName["Sierra Leone"].RawFile)
	assert.Equal(t, "benin_clean.csv", byName["Benin"].CleanFile)
}

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input string
		want  string
		found bool
	}{
		{"Benin", "Benin", true},
		{"  sierra leone ", "Sierra Leone", true},
		{"sierraleone", "Sierra Leone", true},
		{"SL", "Sierra Leone", true},
		{"SLE", "Sierra Leone", true},
		{"tg", "Togo", true},
		{"BEN", "Benin", true},
		{"Ghana", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := r.Lookup(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, c.Name)
		})
	}
}

func TestCustomRegistry(t *testing.T) {
	r := NewRegistry(domain.Country{Name: "Burkina Faso"}, domain.Country{Name: "Atlantis", Code: "AT1"})

	c, ok := r.Lookup("BF")
	require.True(t, ok)
	assert.Equal(t, "burkinafaso", c.Slug)
	assert.Equal(t, "burkinafaso_clean.csv", c.CleanFile)

	c, ok = r.Lookup("at1")
	require.True(t, ok)
	assert.Equal(t, "Atlantis", c.Name)

	assert.Equal(t, 1, r.Position("atlantis"))
	assert.Equal(t, -1, r.Position("Togo"))
}
