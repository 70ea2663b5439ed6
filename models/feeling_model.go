package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FeelingMovie is one vote tally inside a feeling document.
type FeelingMovie struct {
	MovieID      int    `json:"movieId" bson:"movieId"`
	Votes        int    `json:"votes" bson:"votes"`
	BackdropPath string `json:"backdropPath" bson:"backdropPath"`
}

// Feeling is a global mood tag; Movies holds per-movie vote counters.
type Feeling struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Feeling string             `json:"feeling" bson:"feeling"`
	Emoji   string             `json:"emoji" bson:"emoji"`
	Movies  []FeelingMovie     `json:"movies,omitempty" bson:"movies"`
}

// FeelingTag is the list shape: label and emoji without the vote tallies.
type FeelingTag struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Feeling string             `json:"feeling" bson:"feeling"`
	Emoji   string             `json:"emoji" bson:"emoji"`
}
