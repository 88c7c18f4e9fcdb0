package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/models"
)

func TestContactDirectoryListPreservesOrder(t *testing.T) {
	dir := NewContactDirectory([]models.Contact{
		{ID: 2, Name: "Иван Петров"},
		{ID: 1, Name: "Анна Смирнова"},
	})

	list := dir.List()
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(1), list[1].ID)
}

func TestContactDirectoryIsReadOnly(t *testing.T) {
	input := []models.Contact{{ID: 1, Name: "Анна Смирнова"}}
	dir := NewContactDirectory(input)

	input[0].Name = "changed"
	list := dir.List()
	list[0].Name = "changed again"

	contact, err := dir.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Анна Смирнова", contact.Name)
}

func TestContactDirectoryGetMissing(t *testing.T) {
	dir := NewContactDirectory(nil)

	_, err := dir.Get(3)
	require.ErrorIs(t, err, ErrContactNotFound)
	assert.Empty(t, dir.List())
}
