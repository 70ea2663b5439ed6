package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UID          string             `json:"uid" bson:"uid"`
	MovieID      int                `json:"movieId" bson:"movieId"`
	Comment      string             `json:"comment" bson:"comment"`
	BackdropPath string             `json:"backdropPath" bson:"backdropPath"`
	Deleted      bool               `json:"deleted" bson:"deleted"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentWithAuthor joins the author's public profile onto a comment for
// the feed endpoints.
type CommentWithAuthor struct {
	Comment
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
}
