package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UID       string             `json:"uid" bson:"uid"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	PhotoURL  string             `json:"photoUrl" bson:"photoUrl"`
	Follow    []string           `json:"follow" bson:"follow"`
	Followed  []string           `json:"followed" bson:"followed"`
	Streaming []int              `json:"streaming" bson:"streaming"`
	Deleted   bool               `json:"deleted" bson:"deleted"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Follows reports whether this user follows the user with the given uid.
func (u *User) Follows(uid string) bool {
	for _, id := range u.Follow {
		if id == uid {
			return true
		}
	}
	return false
}

// FollowedBy reports whether the user with the given uid follows this user.
func (u *User) FollowedBy(uid string) bool {
	for _, id := range u.Followed {
		if id == uid {
			return true
		}
	}
	return false
}

// PublicUser is the shape exposed when listing other people's accounts.
type PublicUser struct {
	UID      string `json:"uid" bson:"uid"`
	Name     string `json:"name" bson:"name"`
	PhotoURL string `json:"photoUrl" bson:"photoUrl"`
}

func (u *User) Public() PublicUser {
	return PublicUser{UID: u.UID, Name: u.Name, PhotoURL: u.PhotoURL}
}
