package handlers

import (
	"cinelog-server/models"
	"cinelog-server/store/storetest"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentHandler() (*CommentHandler, *storetest.UserStore, *storetest.CommentStore) {
	users := storetest.NewUserStore()
	comments := storetest.NewCommentStore()
	return NewCommentHandler(users, comments), users, comments
}

func TestCreateComment(t *testing.T) {
	h, users, comments := newCommentHandler()
	seedUser(users, "alice", "Alice", nil, nil)

	body := map[string]string{"comment": "loved it", "backdropPath": "/x.jpg"}
	rec := httptest.NewRecorder()
	req := newRequest(t, "POST", "/comment/movie/42", "alice", body, map[string]string{"movieId": "42"})
	h.CreateComment(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.CommentWithAuthor
	decodeBody(t, rec, &created)
	assert.Equal(t, "loved it", created.Comment.Comment)
	assert.Equal(t, 42, created.MovieID)
	assert.Equal(t, "Alice", created.Name)

	list, err := comments.FindByUser(req.Context(), "alice", 0, 20)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateComment_Validation(t *testing.T) {
	h, users, _ := newCommentHandler()
	seedUser(users, "alice", "Alice", nil, nil)

	tests := []map[string]string{
		{"backdropPath": "/x.jpg"},
		{"comment": "no backdrop"},
	}
	for _, body := range tests {
		rec := httptest.NewRecorder()
		req := newRequest(t, "POST", "/comment/movie/42", "alice", body, map[string]string{"movieId": "42"})
		h.CreateComment(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestDeleteComment_OtherOwnerUntouched(t *testing.T) {
	h, users, comments := newCommentHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	seedUser(users, "bob", "Bob", nil, nil)
	id := comments.Seed(models.Comment{UID: "bob", MovieID: 42, Comment: "mine", UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	req := newRequest(t, "DELETE", "/comment/"+id.Hex(), "alice", nil, map[string]string{"commentId": id.Hex()})
	h.DeleteComment(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	stored, ok := comments.Get(id)
	require.True(t, ok)
	assert.False(t, stored.Deleted)
	assert.Equal(t, "mine", stored.Comment)
}

func TestDeleteComment_SoftDeletes(t *testing.T) {
	h, users, comments := newCommentHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	id := comments.Seed(models.Comment{UID: "alice", MovieID: 42, Comment: "bye", UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	req := newRequest(t, "DELETE", "/comment/"+id.Hex(), "alice", nil, map[string]string{"commentId": id.Hex()})
	h.DeleteComment(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, ok := comments.Get(id)
	require.True(t, ok, "soft delete keeps the record")
	assert.True(t, stored.Deleted)
}

func TestEditComment(t *testing.T) {
	h, users, comments := newCommentHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	seedUser(users, "bob", "Bob", nil, nil)
	id := comments.Seed(models.Comment{UID: "alice", MovieID: 42, Comment: "first", UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	req := newRequest(t, "PUT", "/comment/"+id.Hex(), "alice", map[string]string{"comment": "edited"}, map[string]string{"commentId": id.Hex()})
	h.EditComment(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, _ := comments.Get(id)
	assert.Equal(t, "edited", stored.Comment)

	// Someone else's comment is out of reach.
	rec = httptest.NewRecorder()
	req = newRequest(t, "PUT", "/comment/"+id.Hex(), "bob", map[string]string{"comment": "hijack"}, map[string]string{"commentId": id.Hex()})
	h.EditComment(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	stored, _ = comments.Get(id)
	assert.Equal(t, "edited", stored.Comment)
}

func TestGetMyComments_Empty(t *testing.T) {
	h, users, _ := newCommentHandler()
	seedUser(users, "alice", "Alice", nil, nil)

	rec := httptest.NewRecorder()
	h.GetMyComments(rec, newRequest(t, "GET", "/comment", "alice", nil, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetMovieComments_NetworkScope(t *testing.T) {
	h, users, comments := newCommentHandler()
	seedUser(users, "alice", "Alice", []string{"bob"}, nil)
	seedUser(users, "bob", "Bob", nil, []string{"alice"})
	seedUser(users, "carol", "Carol", nil, nil)
	comments.Seed(models.Comment{UID: "alice", MovieID: 42, Comment: "mine", UpdatedAt: time.Now()})
	comments.Seed(models.Comment{UID: "bob", MovieID: 42, Comment: "friend", UpdatedAt: time.Now().Add(time.Minute)})
	comments.Seed(models.Comment{UID: "carol", MovieID: 42, Comment: "stranger", UpdatedAt: time.Now()})
	comments.Seed(models.Comment{UID: "bob", MovieID: 7, Comment: "other movie", UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	req := newRequest(t, "GET", "/comment/movie/42", "alice", nil, map[string]string{"movieId": "42"})
	h.GetMovieComments(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Comments []models.CommentWithAuthor `json:"comments"`
	}
	decodeBody(t, rec, &result)
	require.Len(t, result.Comments, 2, "only the caller's network, only this movie")
	assert.Equal(t, "bob", result.Comments[0].UID, "most recent first")
	assert.Equal(t, "Bob", result.Comments[0].Name, "author profile joined on")
}

func TestGetFriendsComments(t *testing.T) {
	h, users, comments := newCommentHandler()
	seedUser(users, "alice", "Alice", []string{"bob"}, nil)
	seedUser(users, "bob", "Bob", nil, []string{"alice"})
	comments.Seed(models.Comment{UID: "bob", MovieID: 42, Comment: "feed", UpdatedAt: time.Now()})
	comments.Seed(models.Comment{UID: "alice", MovieID: 42, Comment: "own", UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	h.GetFriendsComments(rec, newRequest(t, "GET", "/friendscomment", "alice", nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Comments []models.CommentWithAuthor `json:"comments"`
	}
	decodeBody(t, rec, &result)
	require.Len(t, result.Comments, 1)
	assert.Equal(t, "bob", result.Comments[0].UID)
}

func TestGetUserComments_MutualFollowGate(t *testing.T) {
	h, users, comments := newCommentHandler()
	seedUser(users, "alice", "Alice", []string{"bob"}, []string{"bob"})
	seedUser(users, "bob", "Bob", []string{"alice"}, []string{"alice"})
	seedUser(users, "carol", "Carol", nil, nil)
	comments.Seed(models.Comment{UID: "bob", MovieID: 42, Comment: "visible", UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	req := newRequest(t, "GET", "/comment/user/bob", "alice", nil, map[string]string{"userId": "bob"})
	h.GetUserComments(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = newRequest(t, "GET", "/comment/user/bob", "carol", nil, map[string]string{"userId": "bob"})
	h.GetUserComments(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
