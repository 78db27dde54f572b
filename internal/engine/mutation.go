package engine

import (
	errs "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jahandaniyal/notes-api/types"
)

// Mutation is the write side of the note store. Every operation runs in a
// single transaction: the ownership check happens against a note read inside
// that same transaction, and either the whole mutation lands or none of it.
type Mutation struct {
	db *gorm.DB
}

func NewMutation(db *gorm.DB) *Mutation {
	return &Mutation{db: db}
}

// Create persists a new note for the requester. The owner is always the
// requester, whatever the payload says. Privacy defaults to private when
// the payload leaves it out.
func (m *Mutation) Create(requester Requester, payload NotePayload) (*types.Note, error) {
	if !requester.Authenticated() {
		return nil, ErrUnauthenticated
	}

	note := &types.Note{
		User:    *requester.User(),
		UserID:  requester.UserID(),
		Title:   payload.Title,
		Body:    payload.Body,
		Private: true,
	}
	if payload.Private != nil {
		note.Private = *payload.Private
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if payload.Tags != nil {
			tags, err := resolveTags(tx, *payload.Tags)
			if err != nil {
				return err
			}
			note.Tags = tags
		}
		if err := tx.Create(note).Error; err != nil {
			return errors.Wrap(err, "saving note")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if note.Tags == nil {
		note.Tags = []types.Tag{}
	}
	return note, nil
}

// Update replaces the note's fields from the payload. Title and body are
// always overwritten, so a payload missing them clears them. The tag set is
// fully replaced when the tags key is present and left alone when it is
// absent; privacy likewise changes only when present.
func (m *Mutation) Update(requester Requester, noteID uint, payload NotePayload) (*types.Note, error) {
	if !requester.Authenticated() {
		return nil, ErrUnauthenticated
	}

	var updated types.Note
	err := m.db.Transaction(func(tx *gorm.DB) error {
		note, err := loadNote(tx, noteID)
		if err != nil {
			return err
		}
		if !note.OwnedBy(requester.UserID()) {
			return ErrPermissionDenied
		}

		note.Title = payload.Title
		note.Body = payload.Body
		if payload.Private != nil {
			note.Private = *payload.Private
		}

		if payload.Tags != nil {
			tags, err := resolveTags(tx, *payload.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&note).Association("Tags").Replace(tags); err != nil {
				return errors.Wrapf(err, "replacing tags on note %d", noteID)
			}
			note.Tags = tags
		}

		// Select forces zero values through, so cleared title/body persist.
		result := tx.Model(&note).Select("Title", "Body", "Private").Updates(types.Note{
			Title:   note.Title,
			Body:    note.Body,
			Private: note.Private,
		})
		if result.Error != nil {
			return errors.Wrapf(result.Error, "saving note %d", noteID)
		}
		updated = note
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the note and its tag associations. The tags themselves
// stay behind even when nothing references them anymore.
func (m *Mutation) Delete(requester Requester, noteID uint) error {
	if !requester.Authenticated() {
		return ErrUnauthenticated
	}

	return m.db.Transaction(func(tx *gorm.DB) error {
		note, err := loadNote(tx, noteID)
		if err != nil {
			return err
		}
		if !note.OwnedBy(requester.UserID()) {
			return ErrPermissionDenied
		}
		if err := tx.Model(&note).Association("Tags").Clear(); err != nil {
			return errors.Wrapf(err, "clearing tags on note %d", noteID)
		}
		if err := tx.Delete(&note).Error; err != nil {
			return errors.Wrapf(err, "deleting note %d", noteID)
		}
		return nil
	})
}

func loadNote(tx *gorm.DB, noteID uint) (types.Note, error) {
	var note types.Note
	err := tx.Preload("User").Preload("Tags").First(&note, noteID).Error
	if errs.Is(err, gorm.ErrRecordNotFound) {
		return types.Note{}, ErrNotFound
	}
	if err != nil {
		return types.Note{}, errors.Wrapf(err, "loading note %d", noteID)
	}
	return note, nil
}
