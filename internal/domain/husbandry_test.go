package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincantonlogs/firewood/internal/domain"
)

func TestNewHusbandryLog(t *testing.T) {
	author := "sam"
	entry, err := domain.NewHusbandryLog(7, "  Customer called about access  ", &author)
	require.NoError(t, err)

	assert.Equal(t, 7, entry.OrderID)
	assert.Equal(t, "Customer called about access", entry.Note)
	require.NotNil(t, entry.Author)
	assert.Equal(t, "sam", *entry.Author)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestNewHusbandryLogRejectsBlankNote(t *testing.T) {
	for _, note := range []string{"", "   ", "\t\n"} {
		_, err := domain.NewHusbandryLog(7, note, nil)
		require.Error(t, err, "note %q", note)
		assert.True(t, domain.IsValidation(err))
	}
}

func TestNewHusbandryLogDropsBlankAuthor(t *testing.T) {
	blank := "   "
	entry, err := domain.NewHusbandryLog(7, "called back", &blank)
	require.NoError(t, err)
	assert.Nil(t, entry.Author)
}
