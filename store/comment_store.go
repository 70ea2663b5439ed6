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

// MongoCommentStore implements CommentStore on the comments collection.
type MongoCommentStore struct {
	collection *mongo.Collection
}

func NewMongoCommentStore(db *mongo.Database) *MongoCommentStore {
	return &MongoCommentStore{collection: db.Collection("comments")}
}

func (s *MongoCommentStore) find(ctx context.Context, filter bson.M, skip, limit int) ([]models.Comment, error) {
	filter["deleted"] = false
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *MongoCommentStore) FindByUser(ctx context.Context, uid string, skip, limit int) ([]models.Comment, error) {
	return s.find(ctx, bson.M{"uid": uid}, skip, limit)
}

func (s *MongoCommentStore) FindByUsersAndMovie(ctx context.Context, uids []string, movieID int, skip, limit int) ([]models.Comment, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"uid": bson.M{"$in": uids}, "movieId": movieID}, skip, limit)
}

func (s *MongoCommentStore) FindByUsers(ctx context.Context, uids []string, skip, limit int) ([]models.Comment, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"uid": bson.M{"$in": uids}}, skip, limit)
}

func (s *MongoCommentStore) LastByUser(ctx context.Context, uid string, limit int) ([]models.Comment, error) {
	return s.find(ctx, bson.M{"uid": uid}, 0, limit)
}

func (s *MongoCommentStore) Insert(ctx context.Context, comment *models.Comment) error {
	result, err := s.collection.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoCommentStore) UpdateText(ctx context.Context, uid, commentID, text string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrNotFound
	}

	var comment models.Comment
	err = s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "uid": uid, "deleted": false},
		bson.M{"$set": bson.M{"comment": text, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (s *MongoCommentStore) SoftDelete(ctx context.Context, uid, commentID string) error {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "uid": uid, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
