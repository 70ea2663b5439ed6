package handlers

import (
	"cinelog-server/middleware"
	"cinelog-server/models"
	"cinelog-server/store"
	"cinelog-server/utils/errors"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	users    store.UserStore
	movies   store.MovieStore
	comments store.CommentStore
}

func NewUserHandler(users store.UserStore, movies store.MovieStore, comments store.CommentStore) *UserHandler {
	return &UserHandler{users: users, movies: movies, comments: comments}
}

type profileResponse struct {
	models.User
	FollowCount   int `json:"followCount"`
	FollowedCount int `json:"followedCount"`
}

type publicProfileResponse struct {
	models.PublicUser
	WatchedCount   int64            `json:"watchedCount"`
	UnwatchedCount int64            `json:"unwatchedCount"`
	LastWatched    []models.Movie   `json:"lastWatched"`
	LastComments   []models.Comment `json:"lastComments"`
	IsFollowed     bool             `json:"isFollowed"`
}

// GetMyProfile returns the caller's own profile with derived follow counts.
func (h *UserHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	user, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, profileResponse{
		User:          *user,
		FollowCount:   len(user.Follow),
		FollowedCount: len(user.Followed),
	})
}

// UpdateMyProfile applies a partial update; only provided fields overwrite.
func (h *UserHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.AuthUserFrom(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		PhotoURL *string `json:"photoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrValidation)
		return
	}
	if input.Name == nil && input.Email == nil && input.PhotoURL == nil {
		middleware.WriteError(w, errors.Validation("Params name, email or photoUrl is required"))
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), authUser.UID, store.ProfileUpdate{
		Name:     input.Name,
		Email:    input.Email,
		PhotoURL: input.PhotoURL,
	})
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("User not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, user)
}

// DeleteMyProfile soft-deletes the caller's account.
func (h *UserHandler) DeleteMyProfile(w http.ResponseWriter, r *http.Request) {
	user, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if err := h.users.SetDeleted(r.Context(), user.UID, true); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateProfile registers the caller from their token claims. A live
// account conflicts; a soft-deleted one is restored instead.
func (h *UserHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.AuthUserFrom(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	existing, err := h.users.FindAnyByUID(r.Context(), authUser.UID)
	if err != nil && err != store.ErrNotFound {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if existing != nil {
		if !existing.Deleted {
			middleware.WriteError(w, errors.Conflict("User already exists"))
			return
		}
		if err := h.users.SetDeleted(r.Context(), authUser.UID, false); err != nil {
			middleware.WriteError(w, errors.Internal(err))
			return
		}
		restored, err := h.users.FindByUID(r.Context(), authUser.UID)
		if err != nil {
			middleware.WriteError(w, errors.Internal(err))
			return
		}
		log.Printf("Restored account %s", authUser.UID)
		middleware.WriteJSON(w, http.StatusOK, restored)
		return
	}

	now := time.Now()
	user := &models.User{
		UID:       authUser.UID,
		Name:      authUser.Name,
		Email:     authUser.Email,
		PhotoURL:  authUser.PhotoURL,
		Follow:    []string{},
		Followed:  []string{},
		Streaming: []int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.users.Insert(r.Context(), user); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, user)
}

// GetUserProfile aggregates another user's public page: list counts, last
// watched movies, last comments and whether the caller follows them.
func (h *UserHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
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

	watchedCount, err := h.movies.CountByUser(r.Context(), target.UID, true)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	unwatchedCount, err := h.movies.CountByUser(r.Context(), target.UID, false)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	lastWatched, err := h.movies.LastWatched(r.Context(), target.UID, 3)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	lastComments, err := h.comments.LastByUser(r.Context(), target.UID, 10)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, publicProfileResponse{
		PublicUser:     target.Public(),
		WatchedCount:   watchedCount,
		UnwatchedCount: unwatchedCount,
		LastWatched:    lastWatched,
		LastComments:   lastComments,
		IsFollowed:     caller.Follows(target.UID),
	})
}

// SearchUsers matches user names by case-insensitive substring, paginated,
// with the caller excluded from the results.
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.WriteError(w, errors.Validation("Param q is required"))
		return
	}

	users, err := h.users.SearchByName(r.Context(), query, caller.UID, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(users) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

// FollowUser records the caller following the target on both endpoints.
func (h *UserHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	targetUID := mux.Vars(r)["userId"]
	if targetUID == caller.UID {
		middleware.WriteError(w, errors.Validation("Cannot follow yourself"))
		return
	}
	target, err := h.users.FindByUID(r.Context(), targetUID)
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Followed user not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if caller.Follows(target.UID) {
		middleware.WriteError(w, errors.Conflict("Already following this user"))
		return
	}

	if err := h.users.Follow(r.Context(), caller.UID, target.UID); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnfollowUser removes the relationship from both endpoints.
func (h *UserHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	targetUID := mux.Vars(r)["userId"]
	target, err := h.users.FindByUID(r.Context(), targetUID)
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Followed user not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if !caller.Follows(target.UID) {
		middleware.WriteError(w, errors.NotFound("Not following this user"))
		return
	}

	if err := h.users.Unfollow(r.Context(), caller.UID, target.UID); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFollow lists the public profiles of the users the caller follows.
func (h *UserHandler) GetFollow(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	users, err := h.users.FindManyByUIDs(r.Context(), caller.Follow)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if users == nil {
		users = []models.PublicUser{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"follow": users, "count": len(users)})
}

// GetFollowed lists the public profiles of the caller's followers.
func (h *UserHandler) GetFollowed(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	users, err := h.users.FindManyByUIDs(r.Context(), caller.Followed)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if users == nil {
		users = []models.PublicUser{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"followed": users, "count": len(users)})
}

// SaveStreaming replaces the caller's streaming-service preference list.
func (h *UserHandler) SaveStreaming(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	var input struct {
		Streaming []int `json:"streaming"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrValidation)
		return
	}
	if input.Streaming == nil {
		middleware.WriteError(w, errors.Validation("Param streaming is required"))
		return
	}

	if err := h.users.ReplaceStreaming(r.Context(), caller.UID, input.Streaming); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"streaming": input.Streaming})
}
