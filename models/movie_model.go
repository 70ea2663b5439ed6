package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is one entry of a user's tracking list. MovieID is the external
// catalog identifier; one document exists per (uid, movieId) pair.
type Movie struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UID          string             `json:"uid" bson:"uid"`
	MovieID      string             `json:"movieId" bson:"movieId"`
	Title        string             `json:"title" bson:"title"`
	BackdropPath string             `json:"backdropPath" bson:"backdropPath"`
	Watched      bool               `json:"watched" bson:"watched"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
