package engine

import (
	errs "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jahandaniyal/notes-api/types"
)

// ResolveTag returns the tag with the exact given title, creating it if it
// does not exist yet. Concurrent resolution of the same new title is settled
// by the uniqueness constraint on tags.title: losing the insert race is not
// an error, the winner's row is re-read instead.
func ResolveTag(tx *gorm.DB, title string) (types.Tag, error) {
	var tag types.Tag
	err := tx.Where("title = ?", title).First(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errs.Is(err, gorm.ErrRecordNotFound) {
		return types.Tag{}, errors.Wrapf(err, "looking up tag %q", title)
	}

	return createTag(tx, title)
}

// createTag inserts a new tag row. A uniqueness violation means another
// resolver inserted the same title first; that is not an error, the
// winner's row is re-read and returned.
func createTag(tx *gorm.DB, title string) (types.Tag, error) {
	tag := types.Tag{Title: title}
	if err := tx.Create(&tag).Error; err != nil {
		if errs.Is(err, gorm.ErrDuplicatedKey) {
			var existing types.Tag
			if err := tx.Where("title = ?", title).First(&existing).Error; err != nil {
				return types.Tag{}, errors.Wrapf(err, "re-reading tag %q after lost insert race", title)
			}
			return existing, nil
		}
		return types.Tag{}, errors.Wrapf(err, "creating tag %q", title)
	}
	return tag, nil
}

// resolveTags resolves every payload entry and drops duplicate identities,
// so a payload naming the same title twice yields a single membership.
func resolveTags(tx *gorm.DB, payload []TagPayload) ([]types.Tag, error) {
	tags := []types.Tag{}
	seen := map[uint]bool{}
	for _, p := range payload {
		tag, err := ResolveTag(tx, p.Title)
		if err != nil {
			return nil, err
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		tags = append(tags, tag)
	}
	return tags, nil
}
