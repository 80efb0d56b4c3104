package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	mw "github.com/mosacup/webboard/shared/middleware"
)

// currentUser returns the user put into the context by the auth middleware.
func currentUser(r *http.Request) (domain.User, error) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		return domain.User{}, internal_errors.Unauthenticated("Please sign-in")
	}
	return *user, nil
}

// uuidParam parses a chi URL parameter as a uuid.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, internal_errors.BadRequest(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// parseUUIDs keeps the ids that parse and drops the rest.
func parseUUIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
