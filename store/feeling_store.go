package store

import (
	"cinelog-server/models"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFeelingStore implements FeelingStore on the feelings collection.
type MongoFeelingStore struct {
	collection *mongo.Collection
}

func NewMongoFeelingStore(db *mongo.Database) *MongoFeelingStore {
	return &MongoFeelingStore{collection: db.Collection("feelings")}
}

func (s *MongoFeelingStore) FindAll(ctx context.Context) ([]models.FeelingTag, error) {
	opts := options.Find().SetProjection(bson.M{"feeling": 1, "emoji": 1})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feelings []models.FeelingTag
	if err := cursor.All(ctx, &feelings); err != nil {
		return nil, err
	}
	return feelings, nil
}

func (s *MongoFeelingStore) findOne(ctx context.Context, filter bson.M) (*models.Feeling, error) {
	var feeling models.Feeling
	err := s.collection.FindOne(ctx, filter).Decode(&feeling)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &feeling, nil
}

func (s *MongoFeelingStore) FindByID(ctx context.Context, id string) (*models.Feeling, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoFeelingStore) FindByLabel(ctx context.Context, label string) (*models.Feeling, error) {
	return s.findOne(ctx, bson.M{"feeling": label})
}

func (s *MongoFeelingStore) Insert(ctx context.Context, feeling *models.Feeling) error {
	result, err := s.collection.InsertOne(ctx, feeling)
	if err != nil {
		return err
	}
	feeling.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoFeelingStore) UpdateTag(ctx context.Context, id, label, emoji string) (*models.Feeling, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var feeling models.Feeling
	err = s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"feeling": label, "emoji": emoji}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&feeling)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &feeling, nil
}

// IncrementVote bumps the matched counter with a single conditional update
// so concurrent votes on the same (feeling, movie) pair never lose writes.
func (s *MongoFeelingStore) IncrementVote(ctx context.Context, feelingID string, movieID int) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(feelingID)
	if err != nil {
		return false, ErrNotFound
	}
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "movies": bson.M{"$elemMatch": bson.M{"movieId": movieID}}},
		bson.M{"$inc": bson.M{"movies.$.votes": 1}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoFeelingStore) AppendVote(ctx context.Context, feelingID string, movie models.FeelingMovie) error {
	oid, err := primitive.ObjectIDFromHex(feelingID)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"movies": movie}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
