package handlers

import (
	"cinelog-server/middleware"
	"cinelog-server/models"
	"cinelog-server/store"
	"cinelog-server/utils/errors"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

type CommentHandler struct {
	users    store.UserStore
	comments store.CommentStore
}

func NewCommentHandler(users store.UserStore, comments store.CommentStore) *CommentHandler {
	return &CommentHandler{users: users, comments: comments}
}

// GetMyComments lists the caller's own comments.
func (h *CommentHandler) GetMyComments(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	comments, err := h.comments.FindByUser(r.Context(), caller.UID, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(comments) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"comments": comments, "count": len(comments)})
}

// GetMovieComments lists comments on a movie left by the caller's network
// (followed users plus the caller), author profiles joined on.
func (h *CommentHandler) GetMovieComments(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	movieID, err := strconv.Atoi(mux.Vars(r)["movieId"])
	if err != nil {
		middleware.WriteError(w, errors.Validation("movieId is required"))
		return
	}

	network := append([]string{caller.UID}, caller.Follow...)
	comments, err := h.comments.FindByUsersAndMovie(r.Context(), network, movieID, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(comments) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}

	joined, err := withAuthors(r.Context(), h.users, comments)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"comments": joined, "count": len(joined)})
}

// GetUserComments lists another user's comments, gated on a mutual follow.
func (h *CommentHandler) GetUserComments(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	targetUID := mux.Vars(r)["userId"]
	target, err := h.users.FindByUID(r.Context(), targetUID)
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("User profile not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if !mutualFollow(caller, target) {
		middleware.WriteError(w, errors.NotFound("User profile not found"))
		return
	}

	comments, err := h.comments.FindByUser(r.Context(), target.UID, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(comments) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"comments": comments, "count": len(comments)})
}

// GetFriendsComments lists the comment feed of the users the caller
// follows, author profiles joined on.
func (h *CommentHandler) GetFriendsComments(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	comments, err := h.comments.FindByUsers(r.Context(), caller.Follow, pageSkip(r), store.PageSize)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if len(comments) == 0 {
		middleware.WriteError(w, errors.ErrNoMoreItems)
		return
	}

	joined, err := withAuthors(r.Context(), h.users, comments)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"comments": joined, "count": len(joined)})
}

// CreateComment attaches a new comment to a movie.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	movieID, err := strconv.Atoi(mux.Vars(r)["movieId"])
	if err != nil {
		middleware.WriteError(w, errors.Validation("movieId is required"))
		return
	}

	var input struct {
		Comment      string `json:"comment"`
		BackdropPath string `json:"backdropPath"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrValidation)
		return
	}
	if input.Comment == "" {
		middleware.WriteError(w, errors.Validation("Param comment is required"))
		return
	}
	if input.BackdropPath == "" {
		middleware.WriteError(w, errors.Validation("Param backdropPath is required"))
		return
	}

	now := time.Now()
	comment := &models.Comment{
		UID:          caller.UID,
		MovieID:      movieID,
		Comment:      input.Comment,
		BackdropPath: input.BackdropPath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.comments.Insert(r.Context(), comment); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, models.CommentWithAuthor{
		Comment:  *comment,
		Name:     caller.Name,
		PhotoURL: caller.PhotoURL,
	})
}

// EditComment updates a comment's text, scoped to its owner.
func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	var input struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrValidation)
		return
	}
	if input.Comment == "" {
		middleware.WriteError(w, errors.Validation("Comment param is required"))
		return
	}

	comment, err := h.comments.UpdateText(r.Context(), caller.UID, mux.Vars(r)["commentId"], input.Comment)
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Comment not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, comment)
}

// DeleteComment soft-deletes a comment, scoped to its owner.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerProfile(r, h.users)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if err := h.comments.SoftDelete(r.Context(), caller.UID, mux.Vars(r)["commentId"]); err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Comment not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
