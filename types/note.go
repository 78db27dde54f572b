package types

import (
	"gorm.io/gorm"
)

type Note struct {
	gorm.Model
	UserID uint   `json:"-"`
	User   User   `json:"-"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	// Private defaults to true; the mutation engine sets it when the
	// payload leaves it out, so the zero value here is never ambiguous.
	Private bool  `json:"private"`
	Tags    []Tag `gorm:"many2many:note_tags" json:"tags"`
}

// OwnedBy reports whether the note belongs to the given user id. An id of
// zero never owns anything (zero is the anonymous marker).
func (n Note) OwnedBy(userID uint) bool {
	return userID != 0 && n.UserID == userID
}
