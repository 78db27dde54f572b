package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahandaniyal/notes-api/types"
)

func TestCreateNoteWithTags(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")

	note, err := NewMutation(db).Create(AsUser(penny), NotePayload{
		Title: "Test Note",
		Body:  "Hello this is my First Note",
		Tags:  tagList("blog", "thoughts"),
	})
	require.NoError(t, err)

	assert.Equal(t, penny.ID, note.UserID)
	assert.Equal(t, "Test Note", note.Title)
	assert.Equal(t, "Hello this is my First Note", note.Body)
	assert.ElementsMatch(t, []string{"blog", "thoughts"}, tagTitles(note.Tags))

	var stored types.Note
	require.NoError(t, db.Preload("Tags").First(&stored, note.ID).Error)
	assert.Equal(t, penny.ID, stored.UserID)
	assert.ElementsMatch(t, []string{"blog", "thoughts"}, tagTitles(stored.Tags))
}

func TestCreateRequiresAuthentication(t *testing.T) {
	db := newTestDB(t)

	_, err := NewMutation(db).Create(Anonymous(), NotePayload{Title: "Test Note"})
	require.ErrorIs(t, err, ErrUnauthenticated)

	var count int64
	require.NoError(t, db.Model(&types.Note{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateDefaultsToPrivate(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	mut := NewMutation(db)

	implicit, err := mut.Create(AsUser(penny), NotePayload{Title: "no flag"})
	require.NoError(t, err)
	assert.True(t, implicit.Private)

	public, err := mut.Create(AsUser(penny), NotePayload{Title: "public", Private: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, public.Private)
}

func TestCreateReusesExistingTags(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	mut := NewMutation(db)

	_, err := mut.Create(AsUser(penny), NotePayload{Title: "one", Tags: tagList("blog")})
	require.NoError(t, err)
	_, err = mut.Create(AsUser(penny), NotePayload{Title: "two", Tags: tagList("blog")})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&types.Tag{}).Where("title = ?", "blog").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateReplacesTagSet(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	mut := NewMutation(db)

	note, err := mut.Create(AsUser(penny), NotePayload{
		Title: "Test Note",
		Body:  "Hello this is my First Note",
		Tags:  tagList("blog", "thoughts"),
	})
	require.NoError(t, err)

	updated, err := mut.Update(AsUser(penny), note.ID, NotePayload{
		Title: "Test Note Update",
		Body:  "Hello this is my updated Note",
		Tags:  tagList("space", "science"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Test Note Update", updated.Title)
	assert.Equal(t, "Hello this is my updated Note", updated.Body)
	assert.ElementsMatch(t, []string{"space", "science"}, tagTitles(updated.Tags))

	var stored types.Note
	require.NoError(t, db.Preload("Tags").First(&stored, note.ID).Error)
	assert.ElementsMatch(t, []string{"space", "science"}, tagTitles(stored.Tags))
}

func TestUpdateWithoutTagsKeyKeepsTags(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	mut := NewMutation(db)

	note, err := mut.Create(AsUser(penny), NotePayload{Title: "Test Note", Tags: tagList("blog", "thoughts")})
	require.NoError(t, err)

	updated, err := mut.Update(AsUser(penny), note.ID, NotePayload{Title: "renamed", Body: "new body"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"blog", "thoughts"}, tagTitles(updated.Tags))
}

// Updating with a payload that leaves out title and body clears them. That
// is the documented contract, not partial update.
func TestUpdateClearsAbsentTitleAndBody(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	mut := NewMutation(db)

	note, err := mut.Create(AsUser(penny), NotePayload{Title: "Test Note", Body: "Hello this is my First Note"})
	require.NoError(t, err)

	updated, err := mut.Update(AsUser(penny), note.ID, NotePayload{})
	require.NoError(t, err)
	assert.Empty(t, updated.Title)
	assert.Empty(t, updated.Body)

	var stored types.Note
	require.NoError(t, db.First(&stored, note.ID).Error)
	assert.Empty(t, stored.Title)
	assert.Empty(t, stored.Body)
}

func TestUpdateByNonOwnerDenied(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	howard := newTestUser(t, db, "Howard")
	mut := NewMutation(db)

	note, err := mut.Create(AsUser(penny), NotePayload{
		Title: "Test Note",
		Body:  "Hello this is my First Note",
		Tags:  tagList("blog", "thoughts"),
	})
	require.NoError(t, err)

	_, err = mut.Update(AsUser(howard), note.ID, NotePayload{Title: "stolen", Tags: tagList("space")})
	require.ErrorIs(t, err, ErrPermissionDenied)

	var stored types.Note
	require.NoError(t, db.Preload("Tags").First(&stored, note.ID).Error)
	assert.Equal(t, "Test Note", stored.Title)
	assert.Equal(t, "Hello this is my First Note", stored.Body)
	assert.ElementsMatch(t, []string{"blog", "thoughts"}, tagTitles(stored.Tags))
}

func TestUpdateMissingNote(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")

	_, err := NewMutation(db).Update(AsUser(penny), 42, NotePayload{Title: "nope"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByNonOwnerDenied(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	howard := newTestUser(t, db, "Howard")
	mut := NewMutation(db)

	note, err := mut.Create(AsUser(penny), NotePayload{Title: "Test Note"})
	require.NoError(t, err)

	require.ErrorIs(t, mut.Delete(AsUser(howard), note.ID), ErrPermissionDenied)

	var stored types.Note
	require.NoError(t, db.First(&stored, note.ID).Error)
	assert.Equal(t, "Test Note", stored.Title)
}

func TestDeleteRemovesNoteButKeepsTags(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")
	mut := NewMutation(db)

	note, err := mut.Create(AsUser(penny), NotePayload{Title: "Test Note", Tags: tagList("blog", "thoughts")})
	require.NoError(t, err)

	require.NoError(t, mut.Delete(AsUser(penny), note.ID))

	notes, err := NewVisibility(db).VisibleSet(AsUser(penny), Filter{})
	require.NoError(t, err)
	assert.Empty(t, notes)

	// Orphaned tags are never pruned.
	var tagCount int64
	require.NoError(t, db.Model(&types.Tag{}).Count(&tagCount).Error)
	assert.EqualValues(t, 2, tagCount)
}

func TestDeleteMissingNote(t *testing.T) {
	db := newTestDB(t)
	penny := newTestUser(t, db, "Penny")

	require.ErrorIs(t, NewMutation(db).Delete(AsUser(penny), 42), ErrNotFound)
}
