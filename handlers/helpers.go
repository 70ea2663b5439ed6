package handlers

import (
	"cinelog-server/middleware"
	"cinelog-server/models"
	"cinelog-server/store"
	"cinelog-server/utils/errors"
	"context"
	"net/http"
	"strconv"
)

// pageSkip reads the 1-indexed "page" query parameter and converts it to a
// skip offset. A missing or malformed value means page 1.
func pageSkip(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}
	return store.Skip(page)
}

// callerProfile resolves the authenticated caller's stored profile. It
// fails with Unauthorized when no identity is on the context and NotFound
// when the account does not exist or was soft-deleted.
func callerProfile(r *http.Request, users store.UserStore) (*models.User, error) {
	authUser, ok := middleware.AuthUserFrom(r.Context())
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	user, err := users.FindByUID(r.Context(), authUser.UID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, errors.NotFound("User not found")
		}
		return nil, errors.Internal(err)
	}
	return user, nil
}

// mutualFollow reports whether the two users follow each other.
func mutualFollow(a, b *models.User) bool {
	return a.Follows(b.UID) && b.Follows(a.UID)
}

// withAuthors joins each comment with its author's public profile. Authors
// that no longer resolve keep the comment with blank profile fields.
func withAuthors(ctx context.Context, users store.UserStore, comments []models.Comment) ([]models.CommentWithAuthor, error) {
	uids := make([]string, 0, len(comments))
	seen := map[string]bool{}
	for _, c := range comments {
		if !seen[c.UID] {
			seen[c.UID] = true
			uids = append(uids, c.UID)
		}
	}
	authors, err := users.FindManyByUIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	byUID := make(map[string]models.PublicUser, len(authors))
	for _, a := range authors {
		byUID[a.UID] = a
	}

	out := make([]models.CommentWithAuthor, 0, len(comments))
	for _, c := range comments {
		author := byUID[c.UID]
		out = append(out, models.CommentWithAuthor{Comment: c, Name: author.Name, PhotoURL: author.PhotoURL})
	}
	return out, nil
}
