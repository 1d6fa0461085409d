package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemes(t *testing.T) {
	list := Schemes()
	require.Len(t, list, 5)

	names := make([]string, 0, len(list))
	for _, s := range list {
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.Eligibility)
		assert.Regexp(t, `^https://`, s.Link)
		names = append(names, s.Name)
	}
	assert.Contains(t, names[0], "PMFBY")
	assert.Contains(t, names[1], "KCC")
	assert.Equal(t, "Soil Health Card Scheme", names[2])
	assert.Contains(t, names[3], "PKVY")
	assert.Contains(t, names[4], "PMKSY")

	list[0].Name = "changed"
	assert.NotEqual(t, "changed", Schemes()[0].Name)
}
