package db

import "time"

// Note is a short text note owned by a single author.
// Slug is unique across all notes; the index is the storage-level backstop
// for the application's uniqueness check.
type Note struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	AuthorID  uint      `gorm:"index;not null" json:"authorId"`
	Author    User      `json:"-"`
}
