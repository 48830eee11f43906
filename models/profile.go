package models

import (
	"strings"
	"time"
)

// Profile is the public card of a user. There is at most one per owner.
type Profile struct {
	Owner     string    `json:"owner" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Bio       string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type ProfileInput struct {
	Name     string `json:"name" validate:"required,nonblank"`
	Email    string `json:"email" validate:"required,email"`
	Bio      string `json:"bio" validate:"max=500"`
	Location string `json:"location" validate:"max=200"`
}

func (in *ProfileInput) Validate() error {
	return validateStruct(in).orNil()
}

func (in *ProfileInput) Profile(owner string, now time.Time) *Profile {
	return &Profile{
		Owner:     owner,
		Name:      strings.TrimSpace(in.Name),
		Email:     NormalizeEmail(in.Email),
		Bio:       strings.TrimSpace(in.Bio),
		Location:  strings.TrimSpace(in.Location),
		UpdatedAt: now,
	}
}
