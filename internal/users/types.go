package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"notesapp/internal/auth"
)

// User is an account record. Field names match the existing "users"
// collection; Password holds a bcrypt hash and is never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"Name" json:"Name"`
	Email     string             `bson:"Email" json:"Email"`
	Password  string             `bson:"Password" json:"-"`
	CreatedOn time.Time          `bson:"createdOn" json:"createdOn"`
}

func (u *User) Identity() auth.Identity {
	return auth.Identity{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedOn: u.CreatedOn,
	}
}

type CreateAccountInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
