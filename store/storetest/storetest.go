// Package storetest provides in-memory store fakes for handler tests.
package storetest

import (
	"cinelog-server/models"
	"cinelog-server/store"
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func remove(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

// UserStore is a mutex-guarded in-memory store.UserStore.
type UserStore struct {
	mu    sync.Mutex
	users map[string]*models.User

	// FailFollowSecondLeg makes the second write of Follow fail, to
	// exercise the compensation path.
	FailFollowSecondLeg bool
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[string]*models.User{}}
}

// Seed inserts a user directly, bypassing the API.
func (s *UserStore) Seed(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.UID] = &user
}

// Get returns a copy of the stored user for assertions.
func (s *UserStore) Get(uid string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	if !ok {
		return models.User{}, false
	}
	return *user, true
}

func (s *UserStore) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	if !ok || user.Deleted {
		return nil, store.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *UserStore) FindAnyByUID(ctx context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = primitive.NewObjectID()
	copied := *user
	s.users[user.UID] = &copied
	return nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, uid string, update store.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	if !ok || user.Deleted {
		return nil, store.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.PhotoURL != nil {
		user.PhotoURL = *update.PhotoURL
	}
	copied := *user
	return &copied, nil
}

func (s *UserStore) SetDeleted(ctx context.Context, uid string, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	if !ok {
		return store.ErrNotFound
	}
	user.Deleted = deleted
	return nil
}

func (s *UserStore) Follow(ctx context.Context, followerUID, targetUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[targetUID]
	if !ok {
		return store.ErrNotFound
	}
	follower, ok := s.users[followerUID]
	if !ok {
		return store.ErrNotFound
	}
	if !contains(target.Followed, followerUID) {
		target.Followed = append(target.Followed, followerUID)
	}
	if s.FailFollowSecondLeg {
		target.Followed = remove(target.Followed, followerUID)
		return context.DeadlineExceeded
	}
	if !contains(follower.Follow, targetUID) {
		follower.Follow = append(follower.Follow, targetUID)
	}
	return nil
}

func (s *UserStore) Unfollow(ctx context.Context, followerUID, targetUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target, ok := s.users[targetUID]; ok {
		target.Followed = remove(target.Followed, followerUID)
	}
	if follower, ok := s.users[followerUID]; ok {
		follower.Follow = remove(follower.Follow, targetUID)
	}
	return nil
}

func (s *UserStore) SearchByName(ctx context.Context, query, excludeUID string, skip, limit int) ([]models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.PublicUser
	for _, user := range s.users {
		if user.UID == excludeUID || user.Deleted {
			continue
		}
		if strings.Contains(strings.ToLower(user.Name), strings.ToLower(query)) {
			matched = append(matched, user.Public())
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, skip, limit), nil
}

func (s *UserStore) FindManyByUIDs(ctx context.Context, uids []string) ([]models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.PublicUser
	for _, uid := range uids {
		if user, ok := s.users[uid]; ok && !user.Deleted {
			users = append(users, user.Public())
		}
	}
	return users, nil
}

func (s *UserStore) ReplaceStreaming(ctx context.Context, uid string, streaming []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	if !ok || user.Deleted {
		return store.ErrNotFound
	}
	user.Streaming = streaming
	return nil
}

// MovieStore is a mutex-guarded in-memory store.MovieStore.
type MovieStore struct {
	mu     sync.Mutex
	movies []*models.Movie
}

func NewMovieStore() *MovieStore {
	return &MovieStore{}
}

func (s *MovieStore) Seed(movie models.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if movie.ID.IsZero() {
		movie.ID = primitive.NewObjectID()
	}
	s.movies = append(s.movies, &movie)
}

// All returns copies of every stored movie for assertions.
func (s *MovieStore) All() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, *m)
	}
	return out
}

func (s *MovieStore) sorted(match func(*models.Movie) bool) []models.Movie {
	var out []models.Movie
	for _, m := range s.movies {
		if match(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (s *MovieStore) FindByUser(ctx context.Context, uid string, watched bool, skip, limit int) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	movies := s.sorted(func(m *models.Movie) bool { return m.UID == uid && m.Watched == watched })
	return paginate(movies, skip, limit), nil
}

func (s *MovieStore) FindByUsers(ctx context.Context, uids []string, skip, limit int) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	movies := s.sorted(func(m *models.Movie) bool { return contains(uids, m.UID) })
	return paginate(movies, skip, limit), nil
}

func (s *MovieStore) FindOne(ctx context.Context, uid, movieID string) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.UID == uid && m.MovieID == movieID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *MovieStore) Insert(ctx context.Context, movie *models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	movie.ID = primitive.NewObjectID()
	copied := *movie
	s.movies = append(s.movies, &copied)
	return nil
}

func (s *MovieStore) SetWatched(ctx context.Context, uid, movieID string, watched bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.UID == uid && m.MovieID == movieID {
			m.Watched = watched
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *MovieStore) Delete(ctx context.Context, uid, movieID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.movies {
		if m.UID == uid && m.MovieID == movieID {
			s.movies = append(s.movies[:i], s.movies[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *MovieStore) CountByUser(ctx context.Context, uid string, watched bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, m := range s.movies {
		if m.UID == uid && m.Watched == watched {
			count++
		}
	}
	return count, nil
}

func (s *MovieStore) LastWatched(ctx context.Context, uid string, limit int) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	movies := s.sorted(func(m *models.Movie) bool { return m.UID == uid && m.Watched })
	return paginate(movies, 0, limit), nil
}

// CommentStore is a mutex-guarded in-memory store.CommentStore.
type CommentStore struct {
	mu       sync.Mutex
	comments []*models.Comment
}

func NewCommentStore() *CommentStore {
	return &CommentStore{}
}

func (s *CommentStore) Seed(comment models.Comment) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	s.comments = append(s.comments, &comment)
	return comment.ID
}

// Get returns a copy of the comment with the given id for assertions.
func (s *CommentStore) Get(id primitive.ObjectID) (models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.ID == id {
			return *c, true
		}
	}
	return models.Comment{}, false
}

func (s *CommentStore) sorted(match func(*models.Comment) bool) []models.Comment {
	var out []models.Comment
	for _, c := range s.comments {
		if !c.Deleted && match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (s *CommentStore) FindByUser(ctx context.Context, uid string, skip, limit int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := s.sorted(func(c *models.Comment) bool { return c.UID == uid })
	return paginate(comments, skip, limit), nil
}

func (s *CommentStore) FindByUsersAndMovie(ctx context.Context, uids []string, movieID int, skip, limit int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := s.sorted(func(c *models.Comment) bool { return contains(uids, c.UID) && c.MovieID == movieID })
	return paginate(comments, skip, limit), nil
}

func (s *CommentStore) FindByUsers(ctx context.Context, uids []string, skip, limit int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := s.sorted(func(c *models.Comment) bool { return contains(uids, c.UID) })
	return paginate(comments, skip, limit), nil
}

func (s *CommentStore) LastByUser(ctx context.Context, uid string, limit int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := s.sorted(func(c *models.Comment) bool { return c.UID == uid })
	return paginate(comments, 0, limit), nil
}

func (s *CommentStore) Insert(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	copied := *comment
	s.comments = append(s.comments, &copied)
	return nil
}

func (s *CommentStore) UpdateText(ctx context.Context, uid, commentID, text string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.ID == oid && c.UID == uid && !c.Deleted {
			c.Comment = text
			copied := *c
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *CommentStore) SoftDelete(ctx context.Context, uid, commentID string) error {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.ID == oid && c.UID == uid && !c.Deleted {
			c.Deleted = true
			return nil
		}
	}
	return store.ErrNotFound
}

// FeelingStore is a mutex-guarded in-memory store.FeelingStore.
type FeelingStore struct {
	mu       sync.Mutex
	feelings []*models.Feeling
}

func NewFeelingStore() *FeelingStore {
	return &FeelingStore{}
}

func (s *FeelingStore) Seed(feeling models.Feeling) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if feeling.ID.IsZero() {
		feeling.ID = primitive.NewObjectID()
	}
	s.feelings = append(s.feelings, &feeling)
	return feeling.ID
}

// Get returns a copy of the feeling with the given id for assertions.
func (s *FeelingStore) Get(id primitive.ObjectID) (models.Feeling, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feelings {
		if f.ID == id {
			return *f, true
		}
	}
	return models.Feeling{}, false
}

func (s *FeelingStore) FindAll(ctx context.Context) ([]models.FeelingTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tags []models.FeelingTag
	for _, f := range s.feelings {
		tags = append(tags, models.FeelingTag{ID: f.ID, Feeling: f.Feeling, Emoji: f.Emoji})
	}
	return tags, nil
}

func (s *FeelingStore) FindByID(ctx context.Context, id string) (*models.Feeling, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feelings {
		if f.ID == oid {
			copied := *f
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *FeelingStore) FindByLabel(ctx context.Context, label string) (*models.Feeling, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feelings {
		if f.Feeling == label {
			copied := *f
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *FeelingStore) Insert(ctx context.Context, feeling *models.Feeling) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	feeling.ID = primitive.NewObjectID()
	copied := *feeling
	s.feelings = append(s.feelings, &copied)
	return nil
}

func (s *FeelingStore) UpdateTag(ctx context.Context, id, label, emoji string) (*models.Feeling, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feelings {
		if f.ID == oid {
			f.Feeling = label
			f.Emoji = emoji
			copied := *f
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *FeelingStore) IncrementVote(ctx context.Context, feelingID string, movieID int) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(feelingID)
	if err != nil {
		return false, store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feelings {
		if f.ID != oid {
			continue
		}
		for i := range f.Movies {
			if f.Movies[i].MovieID == movieID {
				f.Movies[i].Votes++
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *FeelingStore) AppendVote(ctx context.Context, feelingID string, movie models.FeelingMovie) error {
	oid, err := primitive.ObjectIDFromHex(feelingID)
	if err != nil {
		return store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feelings {
		if f.ID == oid {
			f.Movies = append(f.Movies, movie)
			return nil
		}
	}
	return store.ErrNotFound
}
