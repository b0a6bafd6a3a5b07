package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestCreateAndGetNote(t *testing.T) {
	d := testDB(t)

	note, err := d.CreateNote("First", "This content is long enough.", "neutral")
	require.NoError(t, err)
	assert.Greater(t, note.ID, int64(0))
	assert.Equal(t, "First", note.Title)
	assert.Equal(t, "This content is long enough.", note.Content)
	assert.Equal(t, "neutral", note.Sentiment)
	assert.False(t, note.CreatedAt.IsZero())
	assert.True(t, note.UpdatedAt.Equal(note.CreatedAt))

	got, err := d.GetNote(note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, note.Title, got.Title)
	assert.Equal(t, note.Content, got.Content)
	assert.Equal(t, note.Sentiment, got.Sentiment)
	assert.True(t, got.CreatedAt.Equal(note.CreatedAt))
}

func TestGetNoteMissing(t *testing.T) {
	d := testDB(t)

	_, err := d.GetNote(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNotes(t *testing.T) {
	d := testDB(t)

	empty, err := d.ListNotes(0, 100)
	require.NoError(t, err)
	assert.Empty(t, empty)

	titles := []string{"a", "b", "c"}
	for _, title := range titles {
		_, err := d.CreateNote(title, "content for note "+title, "neutral")
		require.NoError(t, err)
	}

	all, err := d.ListNotes(0, 100)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, title := range titles {
		assert.Equal(t, title, all[i].Title)
	}
	assert.Less(t, all[0].ID, all[1].ID)
	assert.Less(t, all[1].ID, all[2].ID)

	page, err := d.ListNotes(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Title)
}

func TestUpdateNote(t *testing.T) {
	d := testDB(t)

	created, err := d.CreateNote("Before", "The original note content.", "positive")
	require.NoError(t, err)

	updated, err := d.UpdateNote(created.ID, "After", "The replacement note content.", "negative")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "The replacement note content.", updated.Content)
	assert.Equal(t, "negative", updated.Sentiment)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = d.UpdateNote(9999, "x", "unknown id content", "neutral")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSentiment(t *testing.T) {
	d := testDB(t)

	created, err := d.CreateNote("Note", "Some note content here.", "positive")
	require.NoError(t, err)

	updated, err := d.UpdateSentiment(created.ID, "neutral")
	require.NoError(t, err)
	assert.Equal(t, "neutral", updated.Sentiment)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Content, updated.Content)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	_, err = d.UpdateSentiment(9999, "neutral")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNote(t *testing.T) {
	d := testDB(t)

	created, err := d.CreateNote("Doomed", "This note will be removed.", "neutral")
	require.NoError(t, err)

	removed, err := d.DeleteNote(created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = d.GetNote(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting the same id again is a no-op, not an error.
	removed, err = d.DeleteNote(created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestIDsAreNotReused(t *testing.T) {
	d := testDB(t)

	first, err := d.CreateNote("One", "The first note content.", "neutral")
	require.NoError(t, err)

	removed, err := d.DeleteNote(first.ID)
	require.NoError(t, err)
	require.True(t, removed)

	second, err := d.CreateNote("Two", "The second note content.", "neutral")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}
