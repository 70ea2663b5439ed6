package handlers

import (
	"cinelog-server/middleware"
	"cinelog-server/models"
	"cinelog-server/store"
	"cinelog-server/utils/errors"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type MovieHandler struct {
	users  store.UserStore
	movies store.MovieStore
}

func NewMovieHandler(users store.UserStore, movies store.MovieStore) *MovieHandler {
	return &MovieHandler{users: users, movies: movies}
}

func (h *MovieHandler) listOwn(w http.ResponseWriter, r *http.Request, watched bool) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	movies, err := h.movies.FindByUser(r.Context(), caller.UID, watched, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(movies) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"movies": movies, "count": len(movies)})
}

// GetMyUnwatched lists the caller's unwatched movies, latest activity first.
func (h *MovieHandler) GetMyUnwatched(w http.ResponseWriter, r *http.Request) {
	h.listOwn(w, r, false)
}

// GetMyWatched lists the caller's watched movies, latest activity first.
func (h *MovieHandler) GetMyWatched(w http.ResponseWriter, r *http.Request) {
	h.listOwn(w, r, true)
}

func (h *MovieHandler) listOther(w http.ResponseWriter, r *http.Request, watched bool) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	targetUID := mux.Vars(r)["userId"]
	target, err := h.users.FindByUID(r.Context(), targetUID)
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("User not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	// Lists are only visible between users who follow each other.
	if !mutualFollow(caller, target) {
		middleware.WriteError(w, errors.NotFound("User not found"))
		return
	}

	movies, err := h.movies.FindByUser(r.Context(), target.UID, watched, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(movies) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"movies": movies, "count": len(movies)})
}

// GetUserUnwatched lists another user's unwatched movies, gated on a
// mutual follow.
func (h *MovieHandler) GetUserUnwatched(w http.ResponseWriter, r *http.Request) {
	h.listOther(w, r, false)
}

// GetUserWatched lists another user's watched movies, gated on a mutual
// follow.
func (h *MovieHandler) GetUserWatched(w http.ResponseWriter, r *http.Request) {
	h.listOther(w, r, true)
}

// GetFriendsMovies lists recent movie activity of the users the caller
// follows.
func (h *MovieHandler) GetFriendsMovies(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	movies, err := h.movies.FindByUsers(r.Context(), caller.Follow, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(movies) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"movies": movies, "count": len(movies)})
}

// GetMovieDetails reports whether the caller has saved the movie and
// whether it is marked watched.
func (h *MovieHandler) GetMovieDetails(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	movieID := mux.Vars(r)["movieId"]
	movie, err := h.movies.FindOne(r.Context(), caller.UID, movieID)
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteJSON(w, http.StatusOK, map[string]any{"saved": false, "watched": false})
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"saved": true, "watched": movie.Watched, "movie": movie})
}

// AddMovie adds a movie to the caller's unwatched list. A second record
// for the same (user, movie) pair is a conflict.
func (h *MovieHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	var input struct {
		Title        string `json:"title"`
		BackdropPath string `json:"backdropPath"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrValidation)
		return
	}
	if input.BackdropPath == "" {
		middleware.WriteError(w, errors.Validation("backdropPath param is required"))
		return
	}
	if input.Title == "" {
		middleware.WriteError(w, errors.Validation("title param is required"))
		return
	}

	movieID := mux.Vars(r)["movieId"]
	if _, err := h.movies.FindOne(r.Context(), caller.UID, movieID); err == nil {
		middleware.WriteError(w, errors.Conflict("Movie already exists"))
		return
	} else if err != store.ErrNotFound {
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	now := time.Now()
	movie := &models.Movie{
		UID:          caller.UID,
		MovieID:      movieID,
		Title:        input.Title,
		BackdropPath: input.BackdropPath,
		Watched:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.movies.Insert(r.Context(), movie); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{"unwatched": movie})
}

// MarkWatched marks a movie watched: the existing record's flag is flipped
// in place, otherwise a new watched record is created.
func (h *MovieHandler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	var input struct {
		Title        string `json:"title"`
		BackdropPath string `json:"backdropPath"`
	}
	// Body is optional when the record already exists.
	_ = json.NewDecoder(r.Body).Decode(&input)

	movieID := mux.Vars(r)["movieId"]
	existing, err := h.movies.FindOne(r.Context(), caller.UID, movieID)
	if err == nil {
		if err := h.movies.SetWatched(r.Context(), caller.UID, movieID, true); err != nil {
			middleware.WriteError(w, errors.Internal(err))
			return
		}
		existing.Watched = true
		middleware.WriteJSON(w, http.StatusOK, existing)
		return
	}
	if err != store.ErrNotFound {
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	now := time.Now()
	movie := &models.Movie{
		UID:          caller.UID,
		MovieID:      movieID,
		Title:        input.Title,
		BackdropPath: input.BackdropPath,
		Watched:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.movies.Insert(r.Context(), movie); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, movie)
}

// RemoveFromWatched moves a movie back to the unwatched list with a
// persisted update.
func (h *MovieHandler) RemoveFromWatched(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	movieID := mux.Vars(r)["movieId"]
	if err := h.movies.SetWatched(r.Context(), caller.UID, movieID, false); err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Movie not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	movie, err := h.movies.FindOne(r.Context(), caller.UID, movieID)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, movie)
}

// DeleteMovie removes the caller's record for a movie outright.
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	movieID := mux.Vars(r)["movieId"]
	if err := h.movies.Delete(r.Context(), caller.UID, movieID); err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Movie not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
