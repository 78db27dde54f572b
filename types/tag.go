package types

import (
	"gorm.io/gorm"
)

// Tag titles are globally unique and case-sensitive. Tags are created
// lazily when a note first references them and are never deleted, even
// once no note references them anymore.
type Tag struct {
	gorm.Model
	Title string `gorm:"uniqueIndex" json:"title"`
	Notes []Note `gorm:"many2many:note_tags" json:"-"`
}
