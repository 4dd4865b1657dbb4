package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/auth"
)

func callerIdentity(r *http.Request) (auth.Identity, *AppError) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, ErrMissingToken
	}
	return id, nil
}

func pathID(r *http.Request, name string) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}
