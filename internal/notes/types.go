package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a user-owned note. Field names match the existing "notes"
// collection.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"Title" json:"Title"`
	Content   string             `bson:"Content" json:"Content"` // markdown
	Tags      []string           `bson:"Tags" json:"Tags"`
	IsPinned  bool               `bson:"isPinned" json:"isPinned"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedOn time.Time          `bson:"createdOn" json:"createdOn"`
	UpdatedOn time.Time          `bson:"updatedOn" json:"updatedOn"`
}

// AddNoteInput is the input for creating a note
type AddNoteInput struct {
	Title   string   `json:"title" validate:"required,max=500"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// EditNoteInput is a partial update. A nil field is left unchanged.
type EditNoteInput struct {
	Title    *string   `json:"title" validate:"omitnil,max=500"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	IsPinned *bool     `json:"isPinned"`
}

func (in EditNoteInput) empty() bool {
	return in.Title == nil && in.Content == nil && in.Tags == nil && in.IsPinned == nil
}

// PinInput is the body of the pin toggle
type PinInput struct {
	IsPinned *bool `json:"isPinned"`
}
