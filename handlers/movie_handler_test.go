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

func newMovieHandler() (*MovieHandler, *storetest.UserStore, *storetest.MovieStore) {
	users := storetest.NewUserStore()
	movies := storetest.NewMovieStore()
	return NewMovieHandler(users, movies), users, movies
}

func TestMarkWatched_CreatesThenFlips(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)

	body := map[string]string{"title": "X", "backdropPath": "/x.jpg"}

	// No prior record: a new watched record is created.
	rec := httptest.NewRecorder()
	req := newRequest(t, "POST", "/movie/42/watched", "alice", body, map[string]string{"movieId": "42"})
	h.MarkWatched(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	all := movies.All()
	require.Len(t, all, 1)
	assert.True(t, all[0].Watched)
	assert.Equal(t, "X", all[0].Title)

	// A second identical call updates the same record, never duplicating.
	rec = httptest.NewRecorder()
	req = newRequest(t, "POST", "/movie/42/watched", "alice", body, map[string]string{"movieId": "42"})
	h.MarkWatched(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, movies.All(), 1)
}

func TestMarkWatched_FlipsExistingUnwatched(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	movies.Seed(models.Movie{UID: "alice", MovieID: "42", Title: "X", Watched: false})

	rec := httptest.NewRecorder()
	req := newRequest(t, "POST", "/movie/42/watched", "alice", nil, map[string]string{"movieId": "42"})
	h.MarkWatched(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	all := movies.All()
	require.Len(t, all, 1)
	assert.True(t, all[0].Watched)
}

func TestAddMovie(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)

	body := map[string]string{"title": "X", "backdropPath": "/x.jpg"}
	rec := httptest.NewRecorder()
	req := newRequest(t, "POST", "/movie/42/add", "alice", body, map[string]string{"movieId": "42"})
	h.AddMovie(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	all := movies.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].Watched)

	// The same (user, movie) pair again is a conflict.
	rec = httptest.NewRecorder()
	req = newRequest(t, "POST", "/movie/42/add", "alice", body, map[string]string{"movieId": "42"})
	h.AddMovie(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, movies.All(), 1)
}

func TestAddMovie_OtherUserSameMovie(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	seedUser(users, "bob", "Bob", nil, nil)
	movies.Seed(models.Movie{UID: "bob", MovieID: "42", Title: "X", Watched: false})

	// Existence is keyed per user, not per movie.
	body := map[string]string{"title": "X", "backdropPath": "/x.jpg"}
	rec := httptest.NewRecorder()
	req := newRequest(t, "POST", "/movie/42/add", "alice", body, map[string]string{"movieId": "42"})
	h.AddMovie(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, movies.All(), 2)
}

func TestAddMovie_Validation(t *testing.T) {
	h, users, _ := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)

	rec := httptest.NewRecorder()
	req := newRequest(t, "POST", "/movie/42/add", "alice", map[string]string{"title": "X"}, map[string]string{"movieId": "42"})
	h.AddMovie(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRemoveFromWatched_Persists(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	movies.Seed(models.Movie{UID: "alice", MovieID: "42", Title: "X", Watched: true})

	rec := httptest.NewRecorder()
	req := newRequest(t, "DELETE", "/movie/42/watched", "alice", nil, map[string]string{"movieId": "42"})
	h.RemoveFromWatched(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	all := movies.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].Watched, "flag change must be written to the store")
}

func TestRemoveFromWatched_Absent(t *testing.T) {
	h, users, _ := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)

	rec := httptest.NewRecorder()
	req := newRequest(t, "DELETE", "/movie/42/watched", "alice", nil, map[string]string{"movieId": "42"})
	h.RemoveFromWatched(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMovie(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	movies.Seed(models.Movie{UID: "alice", MovieID: "42", Watched: true})

	rec := httptest.NewRecorder()
	req := newRequest(t, "DELETE", "/movie/42", "alice", nil, map[string]string{"movieId": "42"})
	h.DeleteMovie(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, movies.All())
}

func TestGetMovieDetails(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	movies.Seed(models.Movie{UID: "alice", MovieID: "42", Watched: true})

	rec := httptest.NewRecorder()
	req := newRequest(t, "GET", "/movie/42", "alice", nil, map[string]string{"movieId": "42"})
	h.GetMovieDetails(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Saved   bool `json:"saved"`
		Watched bool `json:"watched"`
	}
	decodeBody(t, rec, &status)
	assert.True(t, status.Saved)
	assert.True(t, status.Watched)

	// Absent movies report their status instead of failing.
	rec = httptest.NewRecorder()
	req = newRequest(t, "GET", "/movie/77", "alice", nil, map[string]string{"movieId": "77"})
	h.GetMovieDetails(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &status)
	assert.False(t, status.Saved)
	assert.False(t, status.Watched)
}

func TestGetMyWatched_SortedAndPaginated(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", nil, nil)
	movies.Seed(models.Movie{UID: "alice", MovieID: "1", Watched: true, UpdatedAt: time.Now().Add(-time.Hour)})
	movies.Seed(models.Movie{UID: "alice", MovieID: "2", Watched: true, UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	h.GetMyWatched(rec, newRequest(t, "GET", "/myprofile/watchedmovies", "alice", nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Movies []models.Movie `json:"movies"`
	}
	decodeBody(t, rec, &result)
	require.Len(t, result.Movies, 2)
	assert.Equal(t, "2", result.Movies[0].MovieID, "latest activity first")

	// Past the last page the uniform empty-page error applies.
	rec = httptest.NewRecorder()
	h.GetMyWatched(rec, newRequest(t, "GET", "/myprofile/watchedmovies?page=2", "alice", nil, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetUserWatched_MutualFollowGate(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", []string{"bob"}, []string{"bob"})
	seedUser(users, "bob", "Bob", []string{"alice"}, []string{"alice"})
	seedUser(users, "carol", "Carol", nil, nil)
	movies.Seed(models.Movie{UID: "bob", MovieID: "42", Watched: true, UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	req := newRequest(t, "GET", "/user/bob/watchedmovies", "alice", nil, map[string]string{"userId": "bob"})
	h.GetUserWatched(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without a mutual follow the list stays hidden.
	rec = httptest.NewRecorder()
	req = newRequest(t, "GET", "/user/bob/watchedmovies", "carol", nil, map[string]string{"userId": "bob"})
	h.GetUserWatched(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFriendsMovies(t *testing.T) {
	h, users, movies := newMovieHandler()
	seedUser(users, "alice", "Alice", []string{"bob"}, nil)
	seedUser(users, "bob", "Bob", nil, []string{"alice"})
	movies.Seed(models.Movie{UID: "bob", MovieID: "42", Watched: true, UpdatedAt: time.Now()})
	movies.Seed(models.Movie{UID: "alice", MovieID: "7", Watched: true, UpdatedAt: time.Now()})

	rec := httptest.NewRecorder()
	h.GetFriendsMovies(rec, newRequest(t, "GET", "/user/friendsMovies", "alice", nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Movies []models.Movie `json:"movies"`
	}
	decodeBody(t, rec, &result)
	require.Len(t, result.Movies, 1)
	assert.Equal(t, "bob", result.Movies[0].UID, "own activity is not part of the feed")
}
