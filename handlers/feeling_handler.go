package handlers

import (
	"cinelog-server/middleware"
	"cinelog-server/models"
	"cinelog-server/store"
	"cinelog-server/utils/errors"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type FeelingHandler struct {
	users    store.UserStore
	feelings store.FeelingStore
}

func NewFeelingHandler(users store.UserStore, feelings store.FeelingStore) *FeelingHandler {
	return &FeelingHandler{users: users, feelings: feelings}
}

// GetFeelings lists every feeling tag: id, label and emoji only.
func (h *FeelingHandler) GetFeelings(w http.ResponseWriter, r *http.Request) {
	feelings, err := h.feelings.FindAll(r.Context())
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if feelings == nil {
		feelings = []models.FeelingTag{}
	}
	middleware.WriteJSON(w, http.StatusOK, feelings)
}

// CreateFeeling registers a new feeling tag; duplicate labels conflict.
func (h *FeelingHandler) CreateFeeling(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Feeling string `json:"feeling"`
		Emoji   string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrValidation)
		return
	}
	if input.Feeling == "" {
		middleware.WriteError(w, errors.Validation("feeling is required"))
		return
	}
	if input.Emoji == "" {
		middleware.WriteError(w, errors.Validation("emoji is required"))
		return
	}

	if _, err := h.feelings.FindByLabel(r.Context(), input.Feeling); err == nil {
		middleware.WriteError(w, errors.Conflict("Feeling already exists"))
		return
	} else if err != store.ErrNotFound {
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	feeling := &models.Feeling{Feeling: input.Feeling, Emoji: input.Emoji, Movies: []models.FeelingMovie{}}
	if err := h.feelings.Insert(r.Context(), feeling); err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, feeling)
}

// UpdateFeeling changes a tag's label and emoji.
func (h *FeelingHandler) UpdateFeeling(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Feeling string `json:"feeling"`
		Emoji   string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrValidation)
		return
	}
	if input.Feeling == "" {
		middleware.WriteError(w, errors.Validation("feeling is required"))
		return
	}
	if input.Emoji == "" {
		middleware.WriteError(w, errors.Validation("emoji is required"))
		return
	}

	feeling, err := h.feelings.UpdateTag(r.Context(), mux.Vars(r)["feelingId"], input.Feeling, input.Emoji)
	if err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Feeling not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, feeling)
}

// VoteFeeling records one vote for (feeling, movie). The counter of an
// existing entry is bumped with a single conditional increment; only when
// that matches nothing is a fresh entry appended, so concurrent votes on
// the same pair cannot end up as duplicate entries.
func (h *FeelingHandler) VoteFeeling(w http.ResponseWriter, r *http.Request) {
	if _, err := callerProfile(r, h.users); err != nil {
		middleware.WriteError(w, err)
		return
	}

	vars := mux.Vars(r)
	movieID, err := strconv.Atoi(vars["movieId"])
	if err != nil {
		middleware.WriteError(w, errors.Validation("movieId is required"))
		return
	}
	feelingID := vars["feelingId"]
	if _, err := h.feelings.FindByID(r.Context(), feelingID); err != nil {
		if err == store.ErrNotFound {
			middleware.WriteError(w, errors.NotFound("Feeling not found"))
			return
		}
		middleware.WriteError(w, errors.Internal(err))
		return
	}

	var input struct {
		BackdropPath string `json:"backdropPath"`
	}
	// Body is optional; backdropPath only matters for the first vote.
	_ = json.NewDecoder(r.Body).Decode(&input)

	incremented, err := h.feelings.IncrementVote(r.Context(), feelingID, movieID)
	if err != nil {
		middleware.WriteError(w, errors.Internal(err))
		return
	}
	if !incremented {
		entry := models.FeelingMovie{MovieID: movieID, Votes: 1, BackdropPath: input.BackdropPath}
		if err := h.feelings.AppendVote(r.Context(), feelingID, entry); err != nil {
			middleware.WriteError(w, errors.Internal(err))
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
