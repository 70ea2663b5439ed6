package store

import (
	"cinelog-server/models"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMovieStore implements MovieStore on the movies collection.
type MongoMovieStore struct {
	collection *mongo.Collection
}

func NewMongoMovieStore(db *mongo.Database) *MongoMovieStore {
	return &MongoMovieStore{collection: db.Collection("movies")}
}

func (s *MongoMovieStore) find(ctx context.Context, filter bson.M, skip, limit int) ([]models.Movie, error) {
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *MongoMovieStore) FindByUser(ctx context.Context, uid string, watched bool, skip, limit int) ([]models.Movie, error) {
	return s.find(ctx, bson.M{"uid": uid, "watched": watched}, skip, limit)
}

func (s *MongoMovieStore) FindByUsers(ctx context.Context, uids []string, skip, limit int) ([]models.Movie, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"uid": bson.M{"$in": uids}}, skip, limit)
}

func (s *MongoMovieStore) FindOne(ctx context.Context, uid, movieID string) (*models.Movie, error) {
	var movie models.Movie
	err := s.collection.FindOne(ctx, bson.M{"uid": uid, "movieId": movieID}).Decode(&movie)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (s *MongoMovieStore) Insert(ctx context.Context, movie *models.Movie) error {
	result, err := s.collection.InsertOne(ctx, movie)
	if err != nil {
		return err
	}
	movie.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoMovieStore) SetWatched(ctx context.Context, uid, movieID string, watched bool) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"uid": uid, "movieId": movieID},
		bson.M{"$set": bson.M{"watched": watched, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoMovieStore) Delete(ctx context.Context, uid, movieID string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"uid": uid, "movieId": movieID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoMovieStore) CountByUser(ctx context.Context, uid string, watched bool) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"uid": uid, "watched": watched})
}

func (s *MongoMovieStore) LastWatched(ctx context.Context, uid string, limit int) ([]models.Movie, error) {
	return s.find(ctx, bson.M{"uid": uid, "watched": true}, 0, limit)
}
