package engine

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jahandaniyal/notes-api/types"
)

// Filter narrows a note listing. Tags restricts to notes carrying at least
// one of the given titles; Keyword restricts to notes whose title, body or
// any tag title contains it, case-insensitively. Both compose with AND on
// top of the base visibility predicate.
type Filter struct {
	Tags    []string
	Keyword string
}

// Visibility is the read side of the note store.
type Visibility struct {
	db *gorm.DB
}

func NewVisibility(db *gorm.DB) *Visibility {
	return &Visibility{db: db}
}

// VisibleSet lists the notes the requester may see, filtered. The base set
// is asymmetric on purpose: an authenticated requester sees exactly their
// own notes, public or not, and nobody else's; an anonymous requester sees
// exactly the public notes across all owners.
func (v *Visibility) VisibleSet(requester Requester, filter Filter) ([]types.Note, error) {
	ids := v.db.Model(&types.Note{}).Distinct("notes.id")
	if requester.Authenticated() {
		ids = ids.Where("notes.user_id = ?", requester.UserID())
	} else {
		ids = ids.Where("notes.private = ?", false)
	}

	if len(filter.Tags) > 0 || filter.Keyword != "" {
		ids = ids.
			Joins("LEFT JOIN note_tags ON note_tags.note_id = notes.id").
			Joins("LEFT JOIN tags ON tags.id = note_tags.tag_id")
	}
	if len(filter.Tags) > 0 {
		ids = ids.Where("tags.title IN ?", filter.Tags)
	}
	if filter.Keyword != "" {
		kw := "%" + escapeLike(strings.ToLower(filter.Keyword)) + "%"
		ids = ids.Where("LOWER(notes.title) LIKE ? ESCAPE '\\' OR LOWER(notes.body) LIKE ? ESCAPE '\\' OR LOWER(tags.title) LIKE ? ESCAPE '\\'", kw, kw, kw)
	}

	notes := []types.Note{}
	err := v.db.Preload("User").Preload("Tags").
		Where("notes.id IN (?)", ids).
		Order("notes.created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing notes")
	}
	return notes, nil
}

// escapeLike neutralizes the LIKE metacharacters so the keyword matches as
// a literal substring: "m_lk" must not match "milk".
func escapeLike(keyword string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(keyword)
}

// VisibleOne fetches a single note. The owner and anyone reading a public
// note get the real thing; everyone else gets the masked representation.
func (v *Visibility) VisibleOne(requester Requester, noteID uint) (*types.Note, error) {
	var note types.Note
	err := v.db.Preload("User").Preload("Tags").First(&note, noteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading note %d", noteID)
	}
	if note.OwnedBy(requester.UserID()) || !note.Private {
		return &note, nil
	}
	return MaskedNote(note), nil
}

// MaskedNote is the compatibility behavior for reading someone else's
// private note: instead of an explicit denial the caller gets a note with
// owner, title, body, tags and the privacy flag all zeroed. Existence still
// leaks through the id. Callers that want a uniform not-found policy only
// have to stop calling this.
func MaskedNote(note types.Note) *types.Note {
	masked := types.Note{Model: gorm.Model{ID: note.ID}}
	masked.Tags = []types.Tag{}
	return &masked
}
