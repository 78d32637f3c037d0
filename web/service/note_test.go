package service

import (
	"testing"

	"github.com/amoskalev/notepanel/database/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestNoteLifecycle(t *testing.T) {
	db := setupDB(t)
	owner := adminCtx(createUser(t, db, "owner@example.com", "pw", true))
	svc := NewNoteService(db)

	note, err := svc.Create(owner, "  Hello ", "# body", false)
	require.NoError(t, err)
	assert.Equal(t, "Hello", note.Title)

	notes, err := svc.List(owner)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	updated, err := svc.Update(owner, note.Id, NotePatch{Published: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Title)
	assert.Equal(t, "# body", updated.ContentMd)
	assert.True(t, updated.Published)

	updated, err = svc.Update(owner, note.Id, NotePatch{Content: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.ContentMd)
	assert.True(t, updated.Published)

	require.NoError(t, svc.Delete(owner, note.Id))
	assert.ErrorIs(t, svc.Delete(owner, note.Id), ErrNotFound)
}

func TestNoteTitleRequired(t *testing.T) {
	db := setupDB(t)
	owner := adminCtx(createUser(t, db, "owner@example.com", "pw", true))
	svc := NewNoteService(db)

	_, err := svc.Create(owner, "   ", "x", false)
	assert.ErrorIs(t, err, ErrTitleRequired)

	note, err := svc.Create(owner, "t", "x", false)
	require.NoError(t, err)
	_, err = svc.Update(owner, note.Id, NotePatch{Title: strPtr(" ")})
	assert.ErrorIs(t, err, ErrTitleRequired)

	stored := &model.Note{}
	require.NoError(t, db.First(stored, note.Id).Error)
	assert.Equal(t, "t", stored.Title)
}

func TestForeignNoteLooksMissing(t *testing.T) {
	db := setupDB(t)
	alice := adminCtx(createUser(t, db, "alice@example.com", "pw", true))
	bob := adminCtx(createUser(t, db, "bob@example.com", "pw", true))
	svc := NewNoteService(db)

	note, err := svc.Create(alice, "private", "x", false)
	require.NoError(t, err)

	_, foreignErr := svc.Update(bob, note.Id, NotePatch{Title: strPtr("mine")})
	_, missingErr := svc.Update(bob, note.Id+100, NotePatch{Title: strPtr("mine")})
	assert.ErrorIs(t, foreignErr, ErrNotFound)
	assert.Equal(t, missingErr, foreignErr)
	assert.ErrorIs(t, svc.Delete(bob, note.Id), ErrNotFound)

	notes, err := svc.List(bob)
	require.NoError(t, err)
	assert.Empty(t, notes)

	stored := &model.Note{}
	require.NoError(t, db.First(stored, note.Id).Error)
	assert.Equal(t, "private", stored.Title)
}

func TestPublished(t *testing.T) {
	db := setupDB(t)
	alice := adminCtx(createUser(t, db, "alice@example.com", "pw", true))
	svc := NewNoteService(db)

	_, err := svc.Create(alice, "draft", "x", false)
	require.NoError(t, err)
	_, err = svc.Create(alice, "post", "y", true)
	require.NoError(t, err)

	posts, err := svc.Published()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post", posts[0].Title)
	assert.Equal(t, "y", posts[0].ContentMd)
	assert.Equal(t, "alice@example.com", posts[0].AuthorEmail)
}
