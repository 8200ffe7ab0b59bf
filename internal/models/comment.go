package models

import "time"

// Comment is left on a shared diary entry by someone holding its share token.
type Comment struct {
	ID         int64     `bson:"id" json:"id"`
	EntryID    int64     `bson:"entryId" json:"entryId"`
	ShareToken string    `bson:"shareToken" json:"-"`
	AuthorName string    `bson:"authorName,omitempty" json:"authorName,omitempty"`
	Content    string    `bson:"content" json:"content"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
