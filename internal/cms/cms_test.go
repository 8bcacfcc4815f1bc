package cms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSlug(t *testing.T) {
	valid := []string{"about", "about-us", "pricing-2026", "a", "1-2-3"}
	for _, s := range valid {
		assert.True(t, ValidSlug(s), s)
	}

	invalid := []string{"", "About", "about us", "-about", "about-", "about--us", "über"}
	for _, s := range invalid {
		assert.False(t, ValidSlug(s), s)
	}
}
