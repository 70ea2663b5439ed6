package store

import (
	"cinelog-server/models"
	"context"
	"errors"
)

// PageSize is the fixed page size for all paginated queries, 1-indexed.
const PageSize = 20

// ErrNotFound is returned by every store when the requested document (or
// the ownership-scoped match) does not exist.
var ErrNotFound = errors.New("store: not found")

// Skip converts a 1-indexed page number into a skip offset.
func Skip(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// ProfileUpdate carries the optional profile fields of a partial update;
// nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	PhotoURL *string
}

// UserStore is the query surface of the users collection.
type UserStore interface {
	// FindByUID returns the live (not soft-deleted) user with the given
	// provider uid.
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	// FindAnyByUID also matches soft-deleted users.
	FindAnyByUID(ctx context.Context, uid string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) (*models.User, error)
	// SetDeleted flips the soft-delete flag; also used to restore accounts.
	SetDeleted(ctx context.Context, uid string, deleted bool) error
	// Follow records the relationship on both endpoints, or on neither.
	Follow(ctx context.Context, followerUID, targetUID string) error
	// Unfollow pulls each endpoint out of the other's list.
	Unfollow(ctx context.Context, followerUID, targetUID string) error
	// SearchByName matches names by case-insensitive substring, excluding
	// the caller and soft-deleted accounts.
	SearchByName(ctx context.Context, query, excludeUID string, skip, limit int) ([]models.PublicUser, error)
	// FindManyByUIDs resolves uids to public profiles, skipping unknowns.
	FindManyByUIDs(ctx context.Context, uids []string) ([]models.PublicUser, error)
	ReplaceStreaming(ctx context.Context, uid string, streaming []int) error
}

// MovieStore is the query surface of the movies collection.
type MovieStore interface {
	// FindByUser lists one user's movies with the given watched state,
	// most recently updated first.
	FindByUser(ctx context.Context, uid string, watched bool, skip, limit int) ([]models.Movie, error)
	// FindByUsers lists recent movie activity across several users.
	FindByUsers(ctx context.Context, uids []string, skip, limit int) ([]models.Movie, error)
	FindOne(ctx context.Context, uid, movieID string) (*models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) error
	// SetWatched persists the flag and fails with ErrNotFound when no
	// (uid, movieId) document matched.
	SetWatched(ctx context.Context, uid, movieID string, watched bool) error
	Delete(ctx context.Context, uid, movieID string) error
	CountByUser(ctx context.Context, uid string, watched bool) (int64, error)
	// LastWatched returns the most recently updated watched movies.
	LastWatched(ctx context.Context, uid string, limit int) ([]models.Movie, error)
}

// CommentStore is the query surface of the comments collection. All reads
// exclude soft-deleted comments.
type CommentStore interface {
	FindByUser(ctx context.Context, uid string, skip, limit int) ([]models.Comment, error)
	// FindByUsersAndMovie lists comments on one movie left by any of the
	// given users, most recently updated first.
	FindByUsersAndMovie(ctx context.Context, uids []string, movieID int, skip, limit int) ([]models.Comment, error)
	FindByUsers(ctx context.Context, uids []string, skip, limit int) ([]models.Comment, error)
	LastByUser(ctx context.Context, uid string, limit int) ([]models.Comment, error)
	Insert(ctx context.Context, comment *models.Comment) error
	// UpdateText edits a comment scoped to its owner; ErrNotFound when the
	// comment does not exist or belongs to someone else.
	UpdateText(ctx context.Context, uid, commentID, text string) (*models.Comment, error)
	// SoftDelete marks a comment deleted, scoped to its owner.
	SoftDelete(ctx context.Context, uid, commentID string) error
}

// FeelingStore is the query surface of the feelings collection.
type FeelingStore interface {
	FindAll(ctx context.Context) ([]models.FeelingTag, error)
	FindByID(ctx context.Context, id string) (*models.Feeling, error)
	FindByLabel(ctx context.Context, label string) (*models.Feeling, error)
	Insert(ctx context.Context, feeling *models.Feeling) error
	UpdateTag(ctx context.Context, id, label, emoji string) (*models.Feeling, error)
	// IncrementVote bumps the vote counter of an existing (feeling, movie)
	// entry in place. Returns false without error when no entry matched.
	IncrementVote(ctx context.Context, feelingID string, movieID int) (bool, error)
	// AppendVote adds a fresh counter entry with a single vote.
	AppendVote(ctx context.Context, feelingID string, movie models.FeelingMovie) error
}
