package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClubSet(t *testing.T) {
	set := NewClubSet("Real Madrid", "  ", "Inter")

	assert.True(t, set.Contains("real madrid"))
	assert.True(t, set.Contains(" INTER "))
	assert.False(t, set.Contains("Inter Miami"))
	assert.False(t, set.Contains(""))
	assert.Len(t, set.Names(), 2)
}

func TestDefaultBigClubs(t *testing.T) {
	set := DefaultBigClubs()

	assert.True(t, set.Contains("Bayern Munich"))
	assert.True(t, set.Contains("Manchester City"))
	assert.False(t, set.Contains("Wrexham"))
}
