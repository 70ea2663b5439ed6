package store

import (
	"cinelog-server/models"
	"context"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore implements UserStore on the users collection.
type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection("users")}
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"uid": uid, "deleted": false})
}

func (s *MongoUserStore) FindAnyByUID(ctx context.Context, uid string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"uid": uid})
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) error {
	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoUserStore) UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PhotoURL != nil {
		set["photoUrl"] = *update.PhotoURL
	}

	var user models.User
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"uid": uid, "deleted": false},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) SetDeleted(ctx context.Context, uid string, deleted bool) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"uid": uid},
		bson.M{"$set": bson.M{"deleted": deleted, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Follow writes the relationship to both endpoints. If the second write
// fails the first is compensated, so the graph never ends up one-sided.
func (s *MongoUserStore) Follow(ctx context.Context, followerUID, targetUID string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"uid": targetUID},
		bson.M{"$addToSet": bson.M{"followed": followerUID}},
	)
	if err != nil {
		return err
	}
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"uid": followerUID},
		bson.M{"$addToSet": bson.M{"follow": targetUID}},
	)
	if err != nil {
		if _, rollbackErr := s.collection.UpdateOne(ctx,
			bson.M{"uid": targetUID},
			bson.M{"$pull": bson.M{"followed": followerUID}},
		); rollbackErr != nil {
			log.Printf("Failed to roll back follow of %s by %s: %v", targetUID, followerUID, rollbackErr)
		}
		return err
	}
	return nil
}

func (s *MongoUserStore) Unfollow(ctx context.Context, followerUID, targetUID string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"uid": targetUID},
		bson.M{"$pull": bson.M{"followed": followerUID}},
	)
	if err != nil {
		return err
	}
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"uid": followerUID},
		bson.M{"$pull": bson.M{"follow": targetUID}},
	)
	return err
}

func (s *MongoUserStore) SearchByName(ctx context.Context, query, excludeUID string, skip, limit int) ([]models.PublicUser, error) {
	filter := bson.M{
		"name":    bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
		"uid":     bson.M{"$ne": excludeUID},
		"deleted": false,
	}
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.PublicUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) FindManyByUIDs(ctx context.Context, uids []string) ([]models.PublicUser, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	cursor, err := s.collection.Find(ctx, bson.M{"uid": bson.M{"$in": uids}, "deleted": false})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.PublicUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) ReplaceStreaming(ctx context.Context, uid string, streaming []int) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"uid": uid, "deleted": false},
		bson.M{"$set": bson.M{"streaming": streaming, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
